package observables

import (
	"math"

	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/vector"
)

// besselCutoff ends the evolution expansion once the Bessel coefficients
// have decayed past the order of the step.
const besselCutoff = 1e-15

func truncated(m int, tau, jm float64) bool {
	return float64(m) > tau && math.Abs(jm) < besselCutoff
}

// evolve replaces state with U(Δt) state, where tau = E_max Δt/ħ.
func (c *Calculator) evolve(ws *vector.Workspace, dir hamiltonian.Direction, tau float64, state *vector.Vector) error {
	s := ws.Vectors(4)
	defer ws.Return(s...)
	s0, s1, s2, out := s[0], s[1], s[2], s[3]

	s0.CopyFrom(state)
	if err := c.h.Chebyshev01(s0, s1, out, math.J0(tau), 2*math.J1(tau), dir); err != nil {
		return err
	}
	for m := 2; ; m++ {
		jm := math.Jn(m, tau)
		if truncated(m, tau, jm) {
			break
		}
		if err := c.h.Chebyshev2(s0, s1, s2, out, 2*jm, hamiltonian.PhaseOf(m, dir)); err != nil {
			return err
		}
		s0, s1, s2 = s1, s2, s0
	}

	state.CopyFrom(out)
	return nil
}

// evolveX writes [X, U(Δt)] in to out.
func (c *Calculator) evolveX(ws *vector.Workspace, dir hamiltonian.Direction, tau float64, in, out *vector.Vector) error {
	s := ws.Vectors(6)
	defer ws.Return(s...)
	s0, s0x, s1, s1x, s2, s2x := s[0], s[1], s[2], s[3], s[4], s[5]

	s0.CopyFrom(in)
	if err := c.h.Apply(s0, s1); err != nil {
		return err
	}
	if err := c.h.ApplyCommutator(s0, s1x); err != nil {
		return err
	}
	if err := c.h.Chebyshev1x(s1x, out, 2*math.J1(tau), dir); err != nil {
		return err
	}
	for m := 2; ; m++ {
		jm := math.Jn(m, tau)
		if truncated(m, tau, jm) {
			break
		}
		if err := c.h.Chebyshev2x(s0, s0x, s1, s1x, s2, s2x, out, 2*jm, hamiltonian.PhaseOf(m, dir)); err != nil {
			return err
		}
		s0, s1, s2 = s1, s2, s0
		s0x, s1x, s2x = s1x, s2x, s0x
	}
	return nil
}
