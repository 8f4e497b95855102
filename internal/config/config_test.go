package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NumberOfMoments != DefaultMoments {
		t.Errorf("expected %d moments, got %d", DefaultMoments, cfg.NumberOfMoments)
	}
	if cfg.Kernel != "jackson" {
		t.Errorf("expected jackson kernel, got %s", cfg.Kernel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("square", "anderson")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Lattice.Anderson != 2 {
		t.Errorf("expected anderson 2, got %f", cfg.Lattice.Anderson)
	}

	cfg.Lattice.Dims[0] = 3
	if Presets["square"]["anderson"].Lattice.Dims[0] == 3 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("square", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "anderson"); cfg != nil {
		t.Error("expected nil for nonexistent geometry")
	}
	if cfg := Lookup("square"); cfg != nil {
		t.Error("expected nil for reference without name")
	}
	if cfg := Lookup("cubic/anderson"); cfg == nil || cfg.Name != "cubic/anderson" {
		t.Errorf("unexpected lookup result %+v", cfg)
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("square")
	if len(presets) != 4 || presets[0] != "anderson" {
		t.Errorf("unexpected square presets %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent geometry")
	}
	if g := Geometries(); len(g) != 3 || g[0] != "chain" {
		t.Errorf("unexpected geometries %v", g)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, geometry := range Geometries() {
		for _, name := range ListPresets(geometry) {
			if err := GetPreset(geometry, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", geometry, name, err)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no dims", func(c *Config) { c.Lattice.Dims = nil }},
		{"four dims", func(c *Config) { c.Lattice.Dims = []int{2, 2, 2, 2} }},
		{"backend", func(c *Config) { c.Backend = "cuda" }},
		{"trials", func(c *Config) { c.NumberOfRandomVectors = 0 }},
		{"moments", func(c *Config) { c.NumberOfMoments = 1 }},
		{"energy points", func(c *Config) { c.NumberOfEnergyPoints = 0 }},
		{"window", func(c *Config) { c.EnergyMin, c.EnergyMax = 1, -1 }},
		{"vac without steps", func(c *Config) { c.CalculateVAC = true }},
		{"msd without dt", func(c *Config) { c.CalculateMSD = true; c.NumberOfStepsCorrelation = 3; c.TimeStepFs = 0 }},
		{"ldos", func(c *Config) { c.CalculateLDOS = true }},
		{"spin", func(c *Config) { c.CalculateSpin = true; c.NumberOfStepsCorrelation = 3 }},
		{"kg", func(c *Config) { c.CalculateMomentsKG = true; c.NumberOfMomentsKG = 0 }},
		{"kernel", func(c *Config) { c.Kernel = "fejer" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("square", "spin")
	cfg.Seed = 99
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 99 || !loaded.Lattice.Spin || loaded.Lattice.SpinFlip != 0.1 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "lattice:\n  dims: [8, 8]\n  hopping: 2\nnumber_of_moments: 64\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.NumberOfMoments != 64 || cfg.NumberOfEnergyPoints != DefaultEnergyPoints {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Kernel != "jackson" {
		t.Errorf("expected default kernel, got %s", cfg.Kernel)
	}
}

func TestBuildModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lattice.Dims = []int{6, 6}
	cfg.NumberOfEnergyPoints = 5
	cfg.CalculateMSD = true
	cfg.NumberOfStepsCorrelation = 4
	cfg.TimeStepFs = 0.5

	m, err := cfg.BuildModel()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if m.N != 36 {
		t.Errorf("expected 36 orbitals, got %d", m.N)
	}
	if len(m.Energies) != 5 || m.Energies[4] != 0.99*m.EnergyMax {
		t.Errorf("unexpected energy grid %v", m.Energies)
	}
	if len(m.TimeSteps) != 4 {
		t.Errorf("expected 4 time steps, got %d", len(m.TimeSteps))
	}

	opts := cfg.Options()
	if err := opts.Validate(m); err != nil {
		t.Errorf("options should validate against the built model: %v", err)
	}
}
