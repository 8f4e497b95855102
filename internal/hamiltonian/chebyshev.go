package hamiltonian

import (
	"fmt"

	"github.com/san-kum/kpmqt/internal/vector"
)

// Direction selects the sign of the time-evolution exponent.
type Direction int

const (
	// Forward evolves with exp(-iHt).
	Forward Direction = 1
	// Backward evolves with exp(+iHt).
	Backward Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Phase is one of the four unit factors (∓i)^m of the evolution expansion.
type Phase int

const (
	PhasePlus Phase = iota
	PhaseMinus
	PhaseMinusI
	PhasePlusI
)

// PhaseOf returns (-i)^m for Forward and (+i)^m for Backward.
func PhaseOf(m int, dir Direction) Phase {
	switch m % 4 {
	case 0:
		return PhasePlus
	case 2:
		return PhaseMinus
	case 1:
		if dir == Forward {
			return PhaseMinusI
		}
		return PhasePlusI
	default:
		if dir == Forward {
			return PhasePlusI
		}
		return PhaseMinusI
	}
}

// Complex returns the phase as a complex number.
func (p Phase) Complex() complex128 {
	switch p {
	case PhaseMinus:
		return -1
	case PhaseMinusI:
		return -1i
	case PhasePlusI:
		return 1i
	default:
		return 1
	}
}

// accumulate adds coef*phase*(re + i im) to out[i].
func accumulate(out *vector.Vector, i int, re, im, coef float64, p Phase) {
	switch p {
	case PhasePlus:
		out.Real[i] += coef * re
		out.Imag[i] += coef * im
	case PhaseMinus:
		out.Real[i] -= coef * re
		out.Imag[i] -= coef * im
	case PhaseMinusI:
		out.Real[i] += coef * im
		out.Imag[i] -= coef * re
	case PhasePlusI:
		out.Real[i] -= coef * im
		out.Imag[i] += coef * re
	}
}

// Chebyshev01 starts an expansion from the seed in s0: it sets s1 = H̃ s0
// and overwrites out with b0*s0 + phase(1)*b1*s1.
func (h *Hamiltonian) Chebyshev01(s0, s1, out *vector.Vector, b0, b1 float64, dir Direction) error {
	if err := h.check([]*vector.Vector{s0}, []*vector.Vector{s1, out}); err != nil {
		return err
	}

	scale := 1 / h.energyMax
	p := PhaseOf(1, dir)
	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			re, im := h.row(i, s0)
			re *= scale
			im *= scale
			s1.Real[i] = re
			s1.Imag[i] = im
			out.Real[i] = b0 * s0.Real[i]
			out.Imag[i] = b0 * s0.Imag[i]
			accumulate(out, i, re, im, b1, p)
		}
	})
	return nil
}

// Chebyshev2 performs one recursion step s2 = 2H̃ s1 - s0 and adds
// phase*bm*s2 to out. A nil out turns the call into a plain recursion step.
func (h *Hamiltonian) Chebyshev2(s0, s1, s2, out *vector.Vector, bm float64, p Phase) error {
	if err := h.check([]*vector.Vector{s1}, []*vector.Vector{s2, out}); err != nil {
		return err
	}
	if s0 == nil || s0.Len() != h.n {
		return fmt.Errorf("%w: s0", ErrDimensionMismatch)
	}

	scale := 2 / h.energyMax
	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			re, im := h.row(i, s1)
			re = re*scale - s0.Real[i]
			im = im*scale - s0.Imag[i]
			s2.Real[i] = re
			s2.Imag[i] = im
			if out != nil {
				accumulate(out, i, re, im, bm, p)
			}
		}
	})
	return nil
}

// Advance computes the next Chebyshev vector s2 = 2H̃ s1 - s0.
func (h *Hamiltonian) Advance(s0, s1, s2 *vector.Vector) error {
	return h.Chebyshev2(s0, s1, s2, nil, 0, PhasePlus)
}

// Chebyshev1x overwrites out with phase(1)*b1*s1x, the first-order term of
// the [X, U] expansion. The zeroth-order term vanishes because [X, T_0] = 0.
func (h *Hamiltonian) Chebyshev1x(s1x, out *vector.Vector, b1 float64, dir Direction) error {
	if err := h.check([]*vector.Vector{s1x}, []*vector.Vector{out}); err != nil {
		return err
	}

	p := PhaseOf(1, dir)
	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			out.Real[i] = 0
			out.Imag[i] = 0
			accumulate(out, i, s1x.Real[i], s1x.Imag[i], b1, p)
		}
	})
	return nil
}

// Chebyshev2x advances the pair (T_m ψ, [X, T_m] ψ):
//
//	s2  = 2H̃ s1 - s0
//	s2x = 2H̃ s1x + 2[X, H̃] s1 - s0x
//
// and adds phase*bm*s2x to out.
func (h *Hamiltonian) Chebyshev2x(s0, s0x, s1, s1x, s2, s2x, out *vector.Vector, bm float64, p Phase) error {
	if err := h.check([]*vector.Vector{s1, s1x}, []*vector.Vector{s2, s2x, out}); err != nil {
		return err
	}
	for _, v := range []*vector.Vector{s0, s0x} {
		if v == nil || v.Len() != h.n {
			return fmt.Errorf("%w: s0/s0x", ErrDimensionMismatch)
		}
	}

	scale := 2 / h.energyMax
	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			re, im := h.row(i, s1)
			s2.Real[i] = re*scale - s0.Real[i]
			s2.Imag[i] = im*scale - s0.Imag[i]

			hre, him := h.row(i, s1x)
			cre, cim := h.rowX(i, s1)
			// [X, H] carries -xx, hence the subtraction.
			xre := (hre-cre)*scale - s0x.Real[i]
			xim := (him-cim)*scale - s0x.Imag[i]
			s2x.Real[i] = xre
			s2x.Imag[i] = xim
			if out != nil {
				accumulate(out, i, xre, xim, bm, p)
			}
		}
	})
	return nil
}
