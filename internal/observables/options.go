package observables

import (
	"fmt"

	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/model"
)

// Series names used by the accumulator and in stored runs.
const (
	SeriesDOS  = "dos"
	SeriesLDOS = "ldos"
	SeriesVAC0 = "vac0"
	SeriesVAC  = "vac"
	SeriesMSD  = "msd"
	SeriesSpin = "spin"
	SeriesKG   = "kg"
)

type Options struct {
	NumberOfRandomVectors int
	NumberOfMoments       int
	// NumberOfMomentsKG is the side of the μ_mn matrix. Memory grows as
	// NumberOfMomentsKG vectors per concurrent trial.
	NumberOfMomentsKG int

	Kernel        string
	LorentzLambda float64

	CalculateVAC0      bool
	CalculateVAC       bool
	CalculateMSD       bool
	CalculateSpin      bool
	CalculateLDOS      bool
	CalculateMomentsKG bool

	// Concurrency bounds the number of trials in flight.
	Concurrency int
}

func DefaultOptions() Options {
	return Options{
		NumberOfRandomVectors: 1,
		NumberOfMoments:       1000,
		NumberOfMomentsKG:     100,
		Kernel:                hamiltonian.KernelJackson,
		LorentzLambda:         4,
		Concurrency:           1,
	}
}

func (o Options) requiresTime() bool {
	return o.CalculateVAC || o.CalculateMSD || o.CalculateSpin
}

// Validate reports conflicts between the options and the model.
func (o Options) Validate(m *model.Model) error {
	if o.NumberOfRandomVectors < 1 {
		return fmt.Errorf("%w: number_of_random_vectors must be at least 1, got %d", ErrConfig, o.NumberOfRandomVectors)
	}
	if o.NumberOfMoments < 2 {
		return fmt.Errorf("%w: number_of_moments must be at least 2, got %d", ErrConfig, o.NumberOfMoments)
	}
	if len(m.Energies) == 0 {
		return fmt.Errorf("%w: number_of_energy_points is zero", ErrConfig)
	}
	if o.requiresTime() && len(m.TimeSteps) == 0 {
		return fmt.Errorf("%w: time-dependent output requested but number_of_steps_correlation is zero", ErrConfig)
	}
	for i, dt := range m.TimeSteps {
		if !(dt > 0) {
			return fmt.Errorf("%w: time step %d is %g", ErrConfig, i, dt)
		}
	}
	if o.CalculateLDOS && len(m.LocalOrbitals) == 0 {
		return fmt.Errorf("%w: local density of states requested without local orbitals", ErrConfig)
	}
	if o.CalculateSpin && !m.Spinful {
		return fmt.Errorf("%w: spin polarization requested on a spinless model", ErrConfig)
	}
	if o.CalculateMomentsKG && o.NumberOfMomentsKG < 2 {
		return fmt.Errorf("%w: number_of_moments_kg must be at least 2, got %d", ErrConfig, o.NumberOfMomentsKG)
	}
	if _, err := hamiltonian.NewKernel(o.Kernel, 1, o.LorentzLambda); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}
