package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chebyshevNodes returns the Gauss-Chebyshev nodes mapped to energies.
func chebyshevNodes(k int, energyMax float64) []float64 {
	out := make([]float64, k)
	for i := range out {
		out[i] = energyMax * math.Cos(math.Pi*(float64(i)+0.5)/float64(k))
	}
	return out
}

func TestChebyshevSumIntegratesToFirstMoment(t *testing.T) {
	moments := []float64{10, 3, -2, 0.5, 0.25, -0.1}
	energyMax := 3.0
	k := 64
	energies := chebyshevNodes(k, energyMax)

	f, err := ChebyshevSum(moments, energies, energyMax)
	require.NoError(t, err)

	integral := 0.0
	for i, e := range energies {
		x := e / energyMax
		integral += f[i] * math.Sqrt(1-x*x) * energyMax * math.Pi / float64(k)
	}
	assert.InDelta(t, moments[0], integral, 1e-10)
}

func TestChebyshevSumKnownValues(t *testing.T) {
	// Only μ_0: the arcsine density.
	f, err := ChebyshevSum([]float64{1}, []float64{0, 0.5, 2, -2}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1/(math.Pi*2), f[0], 1e-15)
	assert.InDelta(t, 1/(math.Pi*math.Sqrt(0.9375)*2), f[1], 1e-15)
	assert.Zero(t, f[2])
	assert.Zero(t, f[3])

	// μ_2 alone contributes 2 T_2(x).
	f, err = ChebyshevSum([]float64{0, 0, 1}, []float64{1}, 2)
	require.NoError(t, err)
	x := 0.5
	assert.InDelta(t, 2*(2*x*x-1)/(math.Pi*math.Sqrt(1-x*x)*2), f[0], 1e-15)

	_, err = ChebyshevSum([]float64{1}, []float64{0}, 0)
	assert.Error(t, err)
}

func TestChebyshevSumSeries(t *testing.T) {
	flat := []float64{1, 0, 2, 0}
	rows, err := ChebyshevSumSeries(flat, 2, []float64{0}, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 2*rows[0][0], rows[1][0], 1e-15)

	_, err = ChebyshevSumSeries(flat, 3, []float64{0}, 1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestConductivity(t *testing.T) {
	mu := []float64{
		4, 0,
		0, 0,
	}
	sigma, err := Conductivity(mu, 2, []float64{0, 1}, 2, 8)
	require.NoError(t, err)

	for i, e := range []float64{0, 1} {
		x := e / 2
		want := 2 * math.Pi * math.Pi * 4 / (math.Pi * math.Pi * (1 - x*x) * 4) / 8
		assert.InDelta(t, want, sigma[i], 1e-14)
	}

	// Off-diagonal moments pick up both factors of two.
	mu = []float64{0, 1, 1, 0}
	sigma, err = Conductivity(mu, 2, []float64{1}, 2, 1)
	require.NoError(t, err)
	x := 0.5
	want := 2 * math.Pi * math.Pi * (2 * 2 * x) / (math.Pi * math.Pi * (1 - x*x) * 4)
	assert.InDelta(t, want, sigma[0], 1e-14)

	_, err = Conductivity(mu, 3, []float64{1}, 2, 1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSeriesHelpers(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 3, 6}, RunningIntegral([]float64{0, 2, 2, 4}, 1))
	assert.Equal(t, []float64{2, 2, 2}, Derivative([]float64{0, 2, 4}, 1))
	assert.Equal(t, []float64{0}, Derivative([]float64{5}, 1))

	q, err := Divide([]float64{1, 2}, []float64{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0}, q)
	_, err = Divide([]float64{1}, nil)
	assert.ErrorIs(t, err, ErrShape)

	assert.Equal(t, []float64{2, 0}, Column([][]float64{{1, 2}, {3}}, 1))
}
