package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kpmqt/internal/config"
	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/observables"
)

func runSmall(t *testing.T) (*config.Config, int, *observables.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Name = "square/test"
	cfg.Lattice.Dims = []int{6, 6}
	cfg.Lattice.Anderson = 1
	cfg.NumberOfMoments = 16
	cfg.NumberOfEnergyPoints = 9
	cfg.NumberOfRandomVectors = 2
	cfg.NumberOfStepsCorrelation = 3
	cfg.TimeStepFs = 0.5
	cfg.CalculateVAC0 = true
	cfg.CalculateVAC = true
	cfg.CalculateMSD = true
	cfg.CalculateLDOS = true
	cfg.LocalOrbitals = []int{0, 7}
	require.NoError(t, cfg.Validate())

	m, err := cfg.BuildModel()
	require.NoError(t, err)
	h, err := hamiltonian.New(m, nil)
	require.NoError(t, err)
	calc, err := observables.NewCalculator(h, m, cfg.Options())
	require.NoError(t, err)
	res, err := observables.NewEnsemble(calc, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	return cfg, m.N, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, st.Init())

	cfg, n, res := runSmall(t)
	runID, err := st.Save(cfg, n, res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "square-test_"), runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "square/test", meta.Name)
	assert.Equal(t, 36, meta.Orbitals)
	assert.Equal(t, []string{"dos", "ldos", "vac0", "vac", "msd"}, meta.Series)
	require.NotNil(t, meta.Config)
	assert.Equal(t, 16, meta.Config.NumberOfMoments)

	for _, name := range meta.Series {
		assert.FileExists(t, filepath.Join(st.Dir(runID), name+".csv"))
	}
	assert.FileExists(t, filepath.Join(st.Dir(runID), momentsFile))

	header, rows, err := st.LoadSeries(runID, "vac")
	require.NoError(t, err)
	assert.Equal(t, "time", header[0])
	assert.Len(t, header, 10)
	require.Len(t, rows, 3)
	assert.Equal(t, 0.0, rows[0][0])
	assert.InDelta(t, 1.0, rows[2][0], 1e-12)
}

func TestLoadResultReconstructs(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	cfg, n, res := runSmall(t)
	runID, err := st.Save(cfg, n, res)
	require.NoError(t, err)

	loaded, err := st.LoadResult(runID)
	require.NoError(t, err)
	assert.Equal(t, res.Moments, loaded.Moments)
	assert.InDeltaSlice(t, res.DOS, loaded.DOS, 1e-12)
	assert.InDeltaSlice(t, res.VAC0, loaded.VAC0, 1e-12)
	assert.Equal(t, res.DOSErr, loaded.DOSErr)
	require.Len(t, loaded.MSD, len(res.MSD))
	assert.InDeltaSlice(t, res.MSD[2], loaded.MSD[2], 1e-12)
	require.Len(t, loaded.LDOS, 2)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, zerolog.Nop())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	cfg, n, res := runSmall(t)
	first, err := st.Save(cfg, n, res)
	require.NoError(t, err)
	second, err := st.Save(cfg, n, res)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)

	_, err = st.Load("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestExport(t *testing.T) {
	_, _, res := runSmall(t)

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, res, "dos"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "energy,dos,dos_err", lines[0])
	assert.Len(t, lines, 10)

	assert.Error(t, ExportCSV(&buf, res, "phonons"))

	buf.Reset()
	meta := &RunMetadata{ID: "x"}
	require.NoError(t, ExportJSON(&buf, meta, res))
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "run")
	assert.Contains(t, decoded, "result")
}

func TestExportSVG(t *testing.T) {
	_, _, res := runSmall(t)

	var buf bytes.Buffer
	require.NoError(t, ExportSVG(&buf, res, "dos"))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 1, strings.Count(out, "<path"))

	buf.Reset()
	require.NoError(t, ExportSVG(&buf, res, "msd"))
	assert.Equal(t, len(res.Energies), strings.Count(buf.String(), "<path"))

	buf.Reset()
	require.NoError(t, ExportSVG(&buf, res, "ldos"))
	assert.Equal(t, 2, strings.Count(buf.String(), "<path"))

	assert.Error(t, ExportSVG(&buf, res, "phonons"))
}
