package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/kpmqt/internal/vector"
)

var (
	// ErrInvalidModel indicates inconsistent array lengths or indices.
	ErrInvalidModel = errors.New("model: invalid model arrays")

	// ErrInvalidOrbital indicates an orbital index outside [0, N).
	ErrInvalidOrbital = errors.New("model: orbital out of range")
)

// Arrays is the flat representation of a tight-binding Hamiltonian.
// Entry (i, k) of the per-bond arrays lives at i*MaxNeighbor+k; slots with
// k >= NeighborNumber[i] are padding and carry no meaning.
type Arrays struct {
	N           int
	MaxNeighbor int
	EnergyMax   float64

	NeighborNumber []int
	NeighborList   []int
	Potential      []float64
	HoppingReal    []float64
	HoppingImag    []float64
	// XX holds x_j - x_i for every bond, the position difference along the
	// transport direction.
	XX []float64
}

// Validate checks the structural invariants of the arrays.
func (a *Arrays) Validate() error {
	if a.N <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidModel, a.N)
	}
	if a.MaxNeighbor < 0 {
		return fmt.Errorf("%w: max_neighbor must be non-negative, got %d", ErrInvalidModel, a.MaxNeighbor)
	}
	if !(a.EnergyMax > 0) || math.IsInf(a.EnergyMax, 0) {
		return fmt.Errorf("%w: energy_max must be positive and finite, got %g", ErrInvalidModel, a.EnergyMax)
	}

	bonds := a.N * a.MaxNeighbor
	lengths := []struct {
		name string
		got  int
		want int
	}{
		{"neighbor_number", len(a.NeighborNumber), a.N},
		{"potential", len(a.Potential), a.N},
		{"neighbor_list", len(a.NeighborList), bonds},
		{"hopping_real", len(a.HoppingReal), bonds},
		{"hopping_imag", len(a.HoppingImag), bonds},
		{"xx", len(a.XX), bonds},
	}
	for _, l := range lengths {
		if l.got != l.want {
			return fmt.Errorf("%w: %s has length %d, want %d", ErrInvalidModel, l.name, l.got, l.want)
		}
	}

	for name, values := range map[string][]float64{
		"potential":    a.Potential,
		"hopping_real": a.HoppingReal,
		"hopping_imag": a.HoppingImag,
		"xx":           a.XX,
	} {
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d] is not finite", ErrInvalidModel, name, i)
			}
		}
	}

	for i := 0; i < a.N; i++ {
		nn := a.NeighborNumber[i]
		if nn < 0 || nn > a.MaxNeighbor {
			return fmt.Errorf("%w: neighbor_number[%d] = %d outside [0, %d]", ErrInvalidModel, i, nn, a.MaxNeighbor)
		}
		for k := 0; k < nn; k++ {
			j := a.NeighborList[i*a.MaxNeighbor+k]
			if j < 0 || j >= a.N {
				return fmt.Errorf("%w: neighbor_list[%d,%d] = %d outside [0, %d)", ErrInvalidModel, i, k, j, a.N)
			}
		}
	}

	return nil
}

// GershgorinBound returns max_i (|V_i| + sum_k |t_ik|), an upper bound of the
// spectral radius of the physical Hamiltonian.
func (a *Arrays) GershgorinBound() float64 {
	bound := 0.0
	for i := 0; i < a.N; i++ {
		row := math.Abs(a.Potential[i])
		for k := 0; k < a.NeighborNumber[i]; k++ {
			idx := i*a.MaxNeighbor + k
			row += math.Hypot(a.HoppingReal[idx], a.HoppingImag[idx])
		}
		if row > bound {
			bound = row
		}
	}
	return bound
}

// Model is the collaborator consumed by the operator engine and the
// observable drivers.
type Model struct {
	Arrays

	// Energies is the grid (eV) on which spectral quantities are reconstructed.
	Energies []float64
	// TimeSteps holds the correlation time steps in fs.
	TimeSteps []float64
	// LocalOrbitals lists the orbitals used for local density of states.
	LocalOrbitals []int
	// Volume in Å^d, used to normalise conductivities.
	Volume float64
	// Spinful models store spin up on even and spin down on odd orbitals.
	Spinful bool
	Seed    int64
}

type Option func(*Model)

func WithEnergies(e []float64) Option {
	return func(m *Model) { m.Energies = e }
}

func WithTimeSteps(ts []float64) Option {
	return func(m *Model) { m.TimeSteps = ts }
}

func WithLocalOrbitals(orbitals []int) Option {
	return func(m *Model) { m.LocalOrbitals = orbitals }
}

func WithVolume(v float64) Option {
	return func(m *Model) { m.Volume = v }
}

func WithSeed(seed int64) Option {
	return func(m *Model) { m.Seed = seed }
}

func WithSpin(spinful bool) Option {
	return func(m *Model) { m.Spinful = spinful }
}

// FromArrays wraps pre-built arrays. The arrays are validated but not
// copied; the operator engine takes its own copy.
func FromArrays(a Arrays, opts ...Option) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	m := &Model{Arrays: a, Volume: float64(a.N)}
	for _, opt := range opts {
		opt(m)
	}

	for _, orb := range m.LocalOrbitals {
		if orb < 0 || orb >= m.N {
			return nil, fmt.Errorf("%w: local orbital %d, n = %d", ErrInvalidOrbital, orb, m.N)
		}
	}
	if m.Spinful && m.N%2 != 0 {
		return nil, fmt.Errorf("%w: spinful model needs an even number of orbitals, got %d", ErrInvalidModel, m.N)
	}

	return m, nil
}

// Rand returns the generator of one random-vector trial. Trials are seeded
// independently so they can run in any order.
func (m *Model) Rand(trial int) *rand.Rand {
	return rand.New(rand.NewSource(m.Seed + int64(trial)))
}

// InitializeState fills v with a random-phase state when orbital < 0, or
// with the unit vector on orbital otherwise. Random states have unit modulus
// on every orbital, so <v|v> = N and Tr[A] ~ <v|A|v>.
func (m *Model) InitializeState(rng *rand.Rand, v *vector.Vector, orbital int) error {
	if v.Len() != m.N {
		return fmt.Errorf("%w: state has %d components, model has %d", vector.ErrLengthMismatch, v.Len(), m.N)
	}

	if orbital >= 0 {
		if orbital >= m.N {
			return fmt.Errorf("%w: %d, n = %d", ErrInvalidOrbital, orbital, m.N)
		}
		v.Zero()
		v.Real[orbital] = 1
		return nil
	}

	for i := 0; i < m.N; i++ {
		phase := 2 * math.Pi * rng.Float64()
		v.Real[i] = math.Cos(phase)
		v.Imag[i] = math.Sin(phase)
	}
	return nil
}

// SpinPolarize removes the spin-down part of v. The remaining spin-up
// components keep their unit modulus.
func (m *Model) SpinPolarize(v *vector.Vector) {
	for i := 1; i < v.Len(); i += 2 {
		v.Real[i] = 0
		v.Imag[i] = 0
	}
}

// SpinSign is +1 for spin-up orbitals and -1 for spin-down ones.
func (m *Model) SpinSign(orbital int) float64 {
	if orbital%2 == 0 {
		return 1
	}
	return -1
}
