package config

import (
	"slices"
	"strings"
)

func preset(name string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	mutate(cfg)
	return cfg
}

// Presets are grouped by lattice geometry.
var Presets = map[string]map[string]*Config{
	"chain": {
		"clean": preset("chain/clean", func(c *Config) {
			c.Lattice.Dims = []int{100000}
			c.Lattice.Hopping = 2.7
			c.Lattice.Spacing = 1.42
			c.NumberOfMoments = 2000
			c.CalculateVAC0 = true
		}),
		"vacancies": preset("chain/vacancies", func(c *Config) {
			c.Lattice.Dims = []int{100000}
			c.Lattice.Hopping = 2.7
			c.Lattice.Spacing = 1.42
			c.Lattice.VacancyConcentration = 0.01
			c.NumberOfRandomVectors = 4
			c.CalculateVAC0 = true
			c.CalculateLDOS = true
			c.LocalOrbitals = []int{0, 100, 1000}
		}),
	},
	"square": {
		"anderson": preset("square/anderson", func(c *Config) {
			c.Lattice.Dims = []int{256, 256}
			c.Lattice.Anderson = 2
			c.NumberOfRandomVectors = 4
			c.NumberOfMoments = 500
			c.NumberOfStepsCorrelation = 20
			c.TimeStepFs = 2
			c.CalculateVAC0 = true
			c.CalculateVAC = true
			c.CalculateMSD = true
		}),
		"spin": preset("square/spin", func(c *Config) {
			c.Lattice.Dims = []int{128, 128}
			c.Lattice.Anderson = 1
			c.Lattice.Spin = true
			c.Lattice.SpinFlip = 0.1
			c.NumberOfRandomVectors = 2
			c.NumberOfMoments = 500
			c.NumberOfStepsCorrelation = 50
			c.TimeStepFs = 2
			c.CalculateSpin = true
		}),
		"charged": preset("square/charged", func(c *Config) {
			c.Lattice.Dims = []int{256, 256}
			c.Lattice.Hopping = 2.7
			c.Lattice.Spacing = 1.42
			c.Lattice.ChargedImpurities = 0.001
			c.Lattice.ImpurityStrength = 1.5
			c.Lattice.ScreeningLength = 4.26
			c.NumberOfRandomVectors = 4
			c.NumberOfMoments = 1000
			c.NumberOfStepsCorrelation = 20
			c.TimeStepFs = 2
			c.CalculateVAC0 = true
			c.CalculateVAC = true
		}),
		"kubo": preset("square/kubo", func(c *Config) {
			c.Lattice.Dims = []int{128, 128}
			c.Lattice.Anderson = 1.5
			c.NumberOfRandomVectors = 2
			c.NumberOfMoments = 400
			c.NumberOfMomentsKG = 200
			c.CalculateMomentsKG = true
		}),
	},
	"cubic": {
		"anderson": preset("cubic/anderson", func(c *Config) {
			c.Lattice.Dims = []int{32, 32, 32}
			c.Lattice.Anderson = 6
			c.NumberOfRandomVectors = 2
			c.NumberOfMoments = 800
			c.NumberOfStepsCorrelation = 10
			c.TimeStepFs = 5
			c.CalculateVAC0 = true
			c.CalculateMSD = true
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(geometry, name string) *Config {
	geometryPresets, ok := Presets[geometry]
	if !ok {
		return nil
	}
	cfg, ok := geometryPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// Lookup resolves a "geometry/name" preset reference.
func Lookup(ref string) *Config {
	geometry, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil
	}
	return GetPreset(geometry, name)
}

func ListPresets(geometry string) []string {
	geometryPresets, ok := Presets[geometry]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(geometryPresets))
	for name := range geometryPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Geometries lists the preset groups in sorted order.
func Geometries() []string {
	out := make([]string, 0, len(Presets))
	for g := range Presets {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}
