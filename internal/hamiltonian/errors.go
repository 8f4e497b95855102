package hamiltonian

import "errors"

var (
	// ErrSpectralBound indicates E_max smaller than the Gershgorin bound of H.
	ErrSpectralBound = errors.New("hamiltonian: energy_max below spectral bound")

	// ErrAliasing indicates an output vector sharing storage with an input.
	ErrAliasing = errors.New("hamiltonian: output aliases input")

	// ErrDimensionMismatch indicates a vector whose length differs from n.
	ErrDimensionMismatch = errors.New("hamiltonian: dimension mismatch between vector and operator")
)
