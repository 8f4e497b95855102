package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kpmqt/internal/compute"
	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/model"
	"github.com/san-kum/kpmqt/internal/observables"
)

const (
	DefaultHopping          = 1.0
	DefaultRandomVectors    = 1
	DefaultMoments          = 1000
	DefaultMomentsKG        = 100
	DefaultEnergyPoints     = 201
	DefaultTimeStepFs       = 1.0
	DefaultLorentzLambda    = 4.0
	DefaultLogLevel         = "info"
	defaultWindowFraction   = 0.99
	defaultLatticeDimension = 64
)

var ErrConfig = errors.New("config: invalid configuration")

type Config struct {
	Name        string        `yaml:"name"`
	Lattice     LatticeConfig `yaml:"lattice"`
	Backend     string        `yaml:"backend"`
	Workers     int           `yaml:"workers"`
	Concurrency int           `yaml:"concurrency"`
	Seed        int64         `yaml:"seed"`

	NumberOfRandomVectors int `yaml:"number_of_random_vectors"`
	NumberOfMoments       int `yaml:"number_of_moments"`
	NumberOfMomentsKG     int `yaml:"number_of_moments_kg"`
	NumberOfEnergyPoints  int `yaml:"number_of_energy_points"`
	// EnergyMin and EnergyMax bound the output grid in eV. Both zero means
	// 99% of the spectral bound on either side.
	EnergyMin                float64 `yaml:"energy_min"`
	EnergyMax                float64 `yaml:"energy_max"`
	NumberOfStepsCorrelation int     `yaml:"number_of_steps_correlation"`
	TimeStepFs               float64 `yaml:"time_step_fs"`
	LocalOrbitals            []int   `yaml:"local_orbitals,omitempty"`

	Kernel        string  `yaml:"kernel"`
	LorentzLambda float64 `yaml:"lorentz_lambda"`

	CalculateVAC0      bool `yaml:"calculate_vac0"`
	CalculateVAC       bool `yaml:"calculate_vac"`
	CalculateMSD       bool `yaml:"calculate_msd"`
	CalculateSpin      bool `yaml:"calculate_spin"`
	CalculateLDOS      bool `yaml:"calculate_ldos"`
	CalculateMomentsKG bool `yaml:"calculate_moments_kg"`

	LogLevel string `yaml:"log_level"`
}

type LatticeConfig struct {
	Dims                 []int   `yaml:"dims"`
	Periodic             []bool  `yaml:"periodic,omitempty"`
	Spacing              float64 `yaml:"spacing"`
	Hopping              float64 `yaml:"hopping"`
	Anderson             float64 `yaml:"anderson"`
	ChargedImpurities    float64 `yaml:"charged_impurities,omitempty"`
	ImpurityStrength     float64 `yaml:"impurity_strength,omitempty"`
	ScreeningLength      float64 `yaml:"screening_length,omitempty"`
	VacancyConcentration float64 `yaml:"vacancy_concentration"`
	Spin                 bool    `yaml:"spin"`
	SpinFlip             float64 `yaml:"spin_flip"`
	// EnergyMax overrides the automatic spectral bound when positive.
	EnergyMax float64 `yaml:"energy_max,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "custom",
		Lattice: LatticeConfig{
			Dims:    []int{defaultLatticeDimension, defaultLatticeDimension},
			Spacing: 1,
			Hopping: DefaultHopping,
		},
		Backend:               compute.KindAuto,
		Concurrency:           1,
		NumberOfRandomVectors: DefaultRandomVectors,
		NumberOfMoments:       DefaultMoments,
		NumberOfMomentsKG:     DefaultMomentsKG,
		NumberOfEnergyPoints:  DefaultEnergyPoints,
		TimeStepFs:            DefaultTimeStepFs,
		Kernel:                hamiltonian.KernelJackson,
		LorentzLambda:         DefaultLorentzLambda,
		LogLevel:              DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) timeDependent() bool {
	return c.CalculateVAC || c.CalculateMSD || c.CalculateSpin
}

// Validate reports conflicting settings before anything is built.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...))
	}

	if len(c.Lattice.Dims) == 0 || len(c.Lattice.Dims) > 3 {
		fail("lattice needs 1 to 3 dimensions, got %d", len(c.Lattice.Dims))
	}
	if !slices.Contains(compute.Kinds(), c.Backend) {
		fail("unknown backend %q", c.Backend)
	}
	if c.NumberOfRandomVectors < 1 {
		fail("number_of_random_vectors must be at least 1")
	}
	if c.NumberOfMoments < 2 {
		fail("number_of_moments must be at least 2")
	}
	if c.NumberOfEnergyPoints < 1 {
		fail("number_of_energy_points must be at least 1")
	}
	if c.EnergyMin > c.EnergyMax {
		fail("energy window [%g, %g] is empty", c.EnergyMin, c.EnergyMax)
	}
	if c.timeDependent() {
		if c.NumberOfStepsCorrelation < 1 {
			fail("time-dependent output requested but number_of_steps_correlation is %d", c.NumberOfStepsCorrelation)
		}
		if c.TimeStepFs <= 0 {
			fail("time_step_fs must be positive, got %g", c.TimeStepFs)
		}
	}
	if c.CalculateLDOS && len(c.LocalOrbitals) == 0 {
		fail("calculate_ldos requires local_orbitals")
	}
	if c.CalculateSpin && !c.Lattice.Spin {
		fail("calculate_spin requires a spinful lattice")
	}
	if c.CalculateMomentsKG && c.NumberOfMomentsKG < 2 {
		fail("number_of_moments_kg must be at least 2")
	}
	if _, err := hamiltonian.NewKernel(c.Kernel, 1, c.LorentzLambda); err != nil {
		fail("%v", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		fail("log_level: %v", err)
	}
	return errors.Join(errs...)
}

// EnergyWindow returns the output grid bounds for a model whose spectrum
// lies inside [-energyMax, energyMax].
func (c *Config) EnergyWindow(energyMax float64) (float64, float64) {
	if c.EnergyMin == 0 && c.EnergyMax == 0 {
		return -defaultWindowFraction * energyMax, defaultWindowFraction * energyMax
	}
	return c.EnergyMin, c.EnergyMax
}

func (l LatticeConfig) model() model.LatticeConfig {
	return model.LatticeConfig{
		Dims:                 l.Dims,
		Periodic:             l.Periodic,
		Spacing:              l.Spacing,
		Hopping:              l.Hopping,
		Anderson:             l.Anderson,
		ChargedImpurities:    l.ChargedImpurities,
		ImpurityStrength:     l.ImpurityStrength,
		ScreeningLength:      l.ScreeningLength,
		VacancyConcentration: l.VacancyConcentration,
		Spin:                 l.Spin,
		SpinFlip:             l.SpinFlip,
		EnergyMax:            l.EnergyMax,
	}
}

// BuildModel constructs the lattice and its energy and time grids.
func (c *Config) BuildModel() (*model.Model, error) {
	m, err := model.NewLattice(c.Lattice.model(), c.Seed, model.WithLocalOrbitals(c.LocalOrbitals))
	if err != nil {
		return nil, err
	}

	lo, hi := c.EnergyWindow(m.EnergyMax)
	if m.Energies, err = model.UniformEnergies(c.NumberOfEnergyPoints, lo, hi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if c.timeDependent() {
		if m.TimeSteps, err = model.UniformTimeSteps(c.NumberOfStepsCorrelation, c.TimeStepFs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	return m, nil
}

func (c *Config) Options() observables.Options {
	return observables.Options{
		NumberOfRandomVectors: c.NumberOfRandomVectors,
		NumberOfMoments:       c.NumberOfMoments,
		NumberOfMomentsKG:     c.NumberOfMomentsKG,
		Kernel:                c.Kernel,
		LorentzLambda:         c.LorentzLambda,
		CalculateVAC0:         c.CalculateVAC0,
		CalculateVAC:          c.CalculateVAC,
		CalculateMSD:          c.CalculateMSD,
		CalculateSpin:         c.CalculateSpin,
		CalculateLDOS:         c.CalculateLDOS,
		CalculateMomentsKG:    c.CalculateMomentsKG,
		Concurrency:           c.Concurrency,
	}
}

// Clone returns a deep copy, so presets can be overridden safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Lattice.Dims = slices.Clone(c.Lattice.Dims)
	out.Lattice.Periodic = slices.Clone(c.Lattice.Periodic)
	out.LocalOrbitals = slices.Clone(c.LocalOrbitals)
	return &out
}
