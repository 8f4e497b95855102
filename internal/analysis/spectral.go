package analysis

import (
	"errors"
	"fmt"
	"math"
)

var ErrShape = errors.New("analysis: inconsistent series shape")

// ChebyshevSum reconstructs a spectral function from (damped) moments:
//
//	f(E) = (μ_0 + 2 Σ_m μ_m T_m(x)) / (π sqrt(1 - x²) E_max),  x = E/E_max
//
// Energies outside (-E_max, E_max) evaluate to zero. With μ_m the
// random-vector estimate of Tr[T_m(H̃)] the result integrates to μ_0.
func ChebyshevSum(moments, energies []float64, energyMax float64) ([]float64, error) {
	if energyMax <= 0 {
		return nil, fmt.Errorf("energy_max must be positive, got %g", energyMax)
	}
	out := make([]float64, len(energies))
	if len(moments) == 0 {
		return out, nil
	}

	for i, e := range energies {
		x := e / energyMax
		if x <= -1 || x >= 1 {
			continue
		}
		sum := moments[0]
		t0, t1 := 1.0, x
		for m := 1; m < len(moments); m++ {
			if m > 1 {
				t0, t1 = t1, 2*x*t1-t0
			}
			sum += 2 * moments[m] * t1
		}
		out[i] = sum / (math.Pi * math.Sqrt(1-x*x) * energyMax)
	}
	return out, nil
}

// ChebyshevSumSeries applies ChebyshevSum to consecutive blocks of
// numMoments moments, one block per time step.
func ChebyshevSumSeries(flat []float64, numMoments int, energies []float64, energyMax float64) ([][]float64, error) {
	if numMoments <= 0 || len(flat)%numMoments != 0 {
		return nil, fmt.Errorf("%w: %d values in blocks of %d", ErrShape, len(flat), numMoments)
	}
	steps := len(flat) / numMoments
	out := make([][]float64, steps)
	for s := 0; s < steps; s++ {
		row, err := ChebyshevSum(flat[s*numMoments:(s+1)*numMoments], energies, energyMax)
		if err != nil {
			return nil, err
		}
		out[s] = row
	}
	return out, nil
}

// Conductivity evaluates the Kubo-Greenwood formula
//
//	σ(E) = 2π² (e²/h) Tr[ħV δ(E-H) ħV δ(E-H)] / Ω
//
// from damped two-dimensional moments μ_mn = Tr[ħV T_m ħV T_n] in (eV·Å)².
// The result is in units of e²/h · Å^(2-d), so e²/h for a 2-D sheet.
func Conductivity(mu []float64, numMoments int, energies []float64, energyMax, volume float64) ([]float64, error) {
	if numMoments <= 0 || len(mu) != numMoments*numMoments {
		return nil, fmt.Errorf("%w: %d values for %d moments", ErrShape, len(mu), numMoments)
	}
	if energyMax <= 0 || volume <= 0 {
		return nil, fmt.Errorf("energy_max and volume must be positive, got %g and %g", energyMax, volume)
	}

	out := make([]float64, len(energies))
	cheb := make([]float64, numMoments)
	for i, e := range energies {
		x := e / energyMax
		if x <= -1 || x >= 1 {
			continue
		}
		chebyshevValues(x, cheb)
		for m := range cheb {
			if m > 0 {
				cheb[m] *= 2
			}
		}

		sum := 0.0
		for m := 0; m < numMoments; m++ {
			row := 0.0
			for n := 0; n < numMoments; n++ {
				row += mu[m*numMoments+n] * cheb[n]
			}
			sum += cheb[m] * row
		}

		norm := math.Pi * math.Pi * (1 - x*x) * energyMax * energyMax
		out[i] = 2 * math.Pi * math.Pi * sum / norm / volume
	}
	return out, nil
}

// chebyshevValues fills dst with T_0(x) .. T_{len-1}(x).
func chebyshevValues(x float64, dst []float64) {
	for m := range dst {
		switch m {
		case 0:
			dst[m] = 1
		case 1:
			dst[m] = x
		default:
			dst[m] = 2*x*dst[m-1] - dst[m-2]
		}
	}
}
