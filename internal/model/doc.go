// Package model supplies the tight-binding data the operator engine runs on.
//
// A [Model] carries the flat neighbor-list arrays of the Hamiltonian together
// with the energy grid, the correlation time steps and the orbitals used for
// local density of states. Models come from two places:
//
//   - [FromArrays]: any tight-binding model prepared elsewhere
//   - [NewLattice]: a hypercubic lattice with Anderson disorder, vacancies and
//     optional spin-flip hopping
//
// Random initial states are drawn from a generator the caller owns:
//
//	rng := m.Rand(trial)
//	state := vector.New(m.N)
//	m.InitializeState(rng, state, -1)
//
// Nothing in this package keeps process-wide random state, so two runs with
// the same seed produce identical disorder and identical random vectors.
package model
