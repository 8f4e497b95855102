// Package hamiltonian implements the rescaled tight-binding operator and the
// Chebyshev recursion built on top of it.
//
// The operator is stored as a padded neighbor list. Every application works
// on H/E_max, whose spectrum lies in [-1, 1] as long as E_max bounds the
// spectral radius of H; [New] refuses models whose Gershgorin bound exceeds
// E_max.
//
// The recursion kernels fuse one operator application with the three-term
// update T_m = 2H T_{m-1} - T_{m-2} and, when asked, with the accumulation
// of an expansion coefficient:
//
//	h.Chebyshev01(s0, s1, out, b0, b1, hamiltonian.Forward)
//	for m := 2; m < order; m++ {
//	    h.Chebyshev2(s0, s1, s2, out, bm, hamiltonian.PhaseOf(m, hamiltonian.Forward))
//	    s0, s1, s2 = s1, s2, s0
//	}
//
// # Thread Safety
//
// A Hamiltonian is immutable after New and may be shared by any number of
// goroutines. Vectors passed to one call must not be used concurrently by
// another.
package hamiltonian
