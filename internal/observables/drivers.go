package observables

import (
	"fmt"

	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/units"
	"github.com/san-kum/kpmqt/internal/vector"
)

func (c *Calculator) tau(dtFs float64) float64 {
	return units.ScaledTimeStep(dtFs, c.h.EnergyMax())
}

// FindDOS returns μ_m = Re<r|T_m(H̃)|r> for m < NumberOfMoments.
func (c *Calculator) FindDOS(r *vector.Vector) ([]float64, error) {
	if err := c.checkState(r); err != nil {
		return nil, err
	}
	ws := c.workspace()
	defer ws.Release()

	mu := make([]float64, c.opts.NumberOfMoments)
	if err := c.moments(ws, r, r, mu); err != nil {
		return nil, err
	}
	return mu, nil
}

// FindLDOS returns the density-of-states moments of a single orbital.
func (c *Calculator) FindLDOS(orbital int) ([]float64, error) {
	ws := c.workspace()
	defer ws.Release()

	state := ws.Vectors(1)[0]
	if err := c.m.InitializeState(nil, state, orbital); err != nil {
		return nil, err
	}
	mu := make([]float64, c.opts.NumberOfMoments)
	if err := c.moments(ws, state, state, mu); err != nil {
		return nil, err
	}
	return mu, nil
}

// FindVAC0 returns the moments of <Vr|T_m(H̃)|Vr> in (eV·Å)².
func (c *Calculator) FindVAC0(r *vector.Vector) ([]float64, error) {
	if err := c.checkState(r); err != nil {
		return nil, err
	}
	ws := c.workspace()
	defer ws.Release()

	vr := ws.Vectors(1)[0]
	if err := c.h.ApplyCurrent(r, vr); err != nil {
		return nil, err
	}
	mu := make([]float64, c.opts.NumberOfMoments)
	if err := c.moments(ws, vr, vr, mu); err != nil {
		return nil, err
	}
	return mu, nil
}

// FindVAC returns Re<φR(t)|T_m(H̃) V|φL(t)> for every correlation step,
// one block of NumberOfMoments per step. Step s samples t = t_s with t_0 = 0;
// φL(0) = r and φR(0) = Vr are evolved backward between samples.
func (c *Calculator) FindVAC(r *vector.Vector) ([]float64, error) {
	if err := c.checkState(r); err != nil {
		return nil, err
	}
	ws := c.workspace()
	defer ws.Release()

	k := c.opts.NumberOfMoments
	steps := c.m.TimeSteps
	out := make([]float64, len(steps)*k)

	v := ws.Vectors(3)
	left, right, vLeft := v[0], v[1], v[2]
	left.CopyFrom(r)
	if err := c.h.ApplyCurrent(left, right); err != nil {
		return nil, err
	}

	for s, dt := range steps {
		if err := c.h.ApplyCurrent(left, vLeft); err != nil {
			return nil, err
		}
		if err := c.moments(ws, right, vLeft, out[s*k:(s+1)*k]); err != nil {
			return nil, err
		}
		if s == len(steps)-1 {
			break
		}
		tau := c.tau(dt)
		if err := c.evolve(ws, hamiltonian.Backward, tau, left); err != nil {
			return nil, err
		}
		if err := c.evolve(ws, hamiltonian.Backward, tau, right); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FindMSD returns the moments of <[X,U(t)]r|T_m(H̃)|[X,U(t)]r> in Å² at the
// end of every correlation step, one block of NumberOfMoments per step.
func (c *Calculator) FindMSD(r *vector.Vector) ([]float64, error) {
	if err := c.checkState(r); err != nil {
		return nil, err
	}
	ws := c.workspace()
	defer ws.Release()

	k := c.opts.NumberOfMoments
	steps := c.m.TimeSteps
	out := make([]float64, len(steps)*k)

	v := ws.Vectors(3)
	psi, psiX, cross := v[0], v[1], v[2]
	psi.CopyFrom(r)

	for s, dt := range steps {
		tau := c.tau(dt)
		// [X,U(t+Δt)] = [X,U(Δt)] U(t) + U(Δt) [X,U(t)]
		if err := c.evolveX(ws, hamiltonian.Forward, tau, psi, cross); err != nil {
			return nil, err
		}
		if err := c.evolve(ws, hamiltonian.Forward, tau, psiX); err != nil {
			return nil, err
		}
		psiX.Add(cross)
		if err := c.evolve(ws, hamiltonian.Forward, tau, psi); err != nil {
			return nil, err
		}

		if err := c.moments(ws, psiX, psiX, out[s*k:(s+1)*k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FindSpinPolarization returns S_z at the end of every correlation step for
// the spin-up projection of r.
func (c *Calculator) FindSpinPolarization(r *vector.Vector) ([]float64, error) {
	if err := c.checkState(r); err != nil {
		return nil, err
	}
	if !c.m.Spinful {
		return nil, fmt.Errorf("%w: spin polarization on a spinless model", ErrConfig)
	}
	ws := c.workspace()
	defer ws.Release()

	psi := ws.Copy(r)
	c.m.SpinPolarize(psi)

	out := make([]float64, len(c.m.TimeSteps))
	for s, dt := range c.m.TimeSteps {
		if err := c.evolve(ws, hamiltonian.Forward, c.tau(dt), psi); err != nil {
			return nil, err
		}
		out[s] = c.spinZ(psi)
	}
	return out, nil
}

func (c *Calculator) spinZ(psi *vector.Vector) float64 {
	var sz, norm float64
	for i := 0; i < psi.Len(); i++ {
		w := psi.Real[i]*psi.Real[i] + psi.Imag[i]*psi.Imag[i]
		sz += c.m.SpinSign(i) * w
		norm += w
	}
	if norm == 0 {
		return 0
	}
	return sz / norm
}

// FindMomentsKG returns μ_mn = Re<T_m V r|V T_n r> for m, n below
// NumberOfMomentsKG, row-major. All NumberOfMomentsKG right-hand vectors are
// held at once.
func (c *Calculator) FindMomentsKG(r *vector.Vector) ([]float64, error) {
	if err := c.checkState(r); err != nil {
		return nil, err
	}
	ws := c.workspace()
	defer ws.Release()

	k := c.opts.NumberOfMomentsKG
	right := ws.Vectors(k)
	var err error
	if rerr := c.recurse(ws, r, k, func(n int, t *vector.Vector) {
		if err == nil {
			err = c.h.ApplyCurrent(t, right[n])
		}
	}); rerr != nil {
		return nil, rerr
	}
	if err != nil {
		return nil, err
	}

	vr := ws.Vectors(1)[0]
	if err := c.h.ApplyCurrent(r, vr); err != nil {
		return nil, err
	}
	mu := make([]float64, k*k)
	if err := c.recurse(ws, vr, k, func(m int, t *vector.Vector) {
		row := mu[m*k : (m+1)*k]
		for n, rv := range right {
			row[n] = real(t.Inner(rv))
		}
	}); err != nil {
		return nil, err
	}
	return mu, nil
}
