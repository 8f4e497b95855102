package model

import "fmt"

// UniformEnergies returns n points evenly spaced over [lo, hi].
func UniformEnergies(n int, lo, hi float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of energy points must be positive, got %d", n)
	}
	if hi < lo {
		return nil, fmt.Errorf("energy window [%g, %g] is empty", lo, hi)
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = (lo + hi) / 2
		return out, nil
	}
	de := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*de
	}
	return out, nil
}

// UniformTimeSteps returns n correlation steps of dt fs each.
func UniformTimeSteps(n int, dt float64) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("number of time steps must be non-negative, got %d", n)
	}
	if n > 0 && dt <= 0 {
		return nil, fmt.Errorf("time step must be positive, got %g", dt)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = dt
	}
	return out, nil
}

// Times accumulates steps into the absolute times t_1..t_n.
func Times(steps []float64) []float64 {
	out := make([]float64, len(steps))
	t := 0.0
	for i, dt := range steps {
		t += dt
		out[i] = t
	}
	return out
}
