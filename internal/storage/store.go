package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/san-kum/kpmqt/internal/config"
	"github.com/san-kum/kpmqt/internal/observables"
)

const metadataFile = "metadata.json"

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	log     zerolog.Logger
}

func New(baseDir string, log zerolog.Logger) *Store {
	return &Store{baseDir: baseDir, log: log.With().Str("component", "storage").Logger()}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Seed      int64     `json:"seed"`
	Backend   string    `json:"backend"`
	Orbitals  int       `json:"orbitals"`
	Trials    int       `json:"trials"`
	// Elapsed wall time in seconds.
	Elapsed   float64            `json:"elapsed"`
	EnergyMax float64            `json:"energy_max"`
	Series    []string           `json:"series"`
	Summary   map[string]float64 `json:"summary,omitempty"`
	Config    *config.Config     `json:"config"`
}

func runName(name string) string {
	name = strings.NewReplacer("/", "-", " ", "-").Replace(name)
	if name == "" {
		return "run"
	}
	return name
}

// Save writes the metadata, one CSV per series and the raw moments of a
// finished run and returns its id.
func (s *Store) Save(cfg *config.Config, orbitals int, res *observables.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", runName(cfg.Name), uuid.NewString()[:8])
	runDir := s.Dir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	series := Series(res)
	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Backend:   res.Backend,
		Orbitals:  orbitals,
		Trials:    res.Trials,
		Elapsed:   res.Elapsed.Seconds(),
		EnergyMax: res.EnergyMax,
		Series:    series,
		Summary:   res.Summary(),
		Config:    cfg,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	for _, name := range series {
		header, rows, err := Table(res, name)
		if err != nil {
			return "", err
		}
		if err := writeCSV(filepath.Join(runDir, name+".csv"), header, rows); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	if err := writeMoments(filepath.Join(runDir, momentsFile), res); err != nil {
		return "", fmt.Errorf("write moments: %w", err)
	}

	s.log.Info().Str("run", runID).Strs("series", series).Msg("run saved")
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug().Err(err).Str("dir", entry.Name()).Msg("skipping directory")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadResult rebuilds a run from its stored moments, damped with the
// kernel recorded in its configuration.
func (s *Store) LoadResult(runID string) (*observables.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	res, err := readMoments(filepath.Join(s.Dir(runID), momentsFile))
	if err != nil {
		return nil, err
	}
	res.Backend = meta.Backend
	res.Trials = meta.Trials
	res.Elapsed = time.Duration(meta.Elapsed * float64(time.Second))

	kernel, lambda := "", 0.0
	if meta.Config != nil {
		kernel, lambda = meta.Config.Kernel, meta.Config.LorentzLambda
	}
	if err := res.Reconstruct(kernel, lambda); err != nil {
		return nil, err
	}
	return res, nil
}
