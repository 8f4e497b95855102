package analysis

import "fmt"

// RunningIntegral returns the cumulative trapezoidal integral of samples
// taken at t = 0, dt, 2dt, ...; the first entry is zero.
func RunningIntegral(series []float64, dt float64) []float64 {
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		out[i] = out[i-1] + 0.5*dt*(series[i-1]+series[i])
	}
	return out
}

// Derivative differentiates a uniformly sampled series with central
// differences in the interior and one-sided ones at the ends.
func Derivative(series []float64, dt float64) []float64 {
	n := len(series)
	out := make([]float64, n)
	if n < 2 || dt == 0 {
		return out
	}
	out[0] = (series[1] - series[0]) / dt
	out[n-1] = (series[n-1] - series[n-2]) / dt
	for i := 1; i < n-1; i++ {
		out[i] = (series[i+1] - series[i-1]) / (2 * dt)
	}
	return out
}

// Divide returns num/den element-wise; entries with den == 0 are zero.
func Divide(num, den []float64) ([]float64, error) {
	if len(num) != len(den) {
		return nil, fmt.Errorf("%w: %d / %d", ErrShape, len(num), len(den))
	}
	out := make([]float64, len(num))
	for i := range num {
		if den[i] != 0 {
			out[i] = num[i] / den[i]
		}
	}
	return out, nil
}

// Column extracts entry idx of every row, e.g. one energy across time.
func Column(rows [][]float64, idx int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if idx < len(r) {
			out[i] = r[idx]
		}
	}
	return out
}
