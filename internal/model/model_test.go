package model

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kpmqt/internal/vector"
)

func chainArrays(n int) Arrays {
	a := Arrays{
		N:              n,
		MaxNeighbor:    2,
		EnergyMax:      2.5,
		NeighborNumber: make([]int, n),
		NeighborList:   make([]int, 2*n),
		Potential:      make([]float64, n),
		HoppingReal:    make([]float64, 2*n),
		HoppingImag:    make([]float64, 2*n),
		XX:             make([]float64, 2*n),
	}
	for i := 0; i < n; i++ {
		a.NeighborNumber[i] = 2
		a.NeighborList[2*i] = (i + 1) % n
		a.NeighborList[2*i+1] = (i - 1 + n) % n
		a.HoppingReal[2*i] = -1
		a.HoppingReal[2*i+1] = -1
		a.XX[2*i] = 1
		a.XX[2*i+1] = -1
	}
	return a
}

func TestArraysValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Arrays)
	}{
		{"zero n", func(a *Arrays) { a.N = 0 }},
		{"zero energy max", func(a *Arrays) { a.EnergyMax = 0 }},
		{"nan energy max", func(a *Arrays) { a.EnergyMax = math.NaN() }},
		{"short potential", func(a *Arrays) { a.Potential = a.Potential[:3] }},
		{"short xx", func(a *Arrays) { a.XX = a.XX[:1] }},
		{"too many neighbors", func(a *Arrays) { a.NeighborNumber[2] = 3 }},
		{"neighbor out of range", func(a *Arrays) { a.NeighborList[4] = 99 }},
		{"negative neighbor", func(a *Arrays) { a.NeighborList[1] = -1 }},
		{"nan potential", func(a *Arrays) { a.Potential[0] = math.NaN() }},
		{"inf hopping", func(a *Arrays) { a.HoppingImag[3] = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := chainArrays(6)
			tt.mutate(&a)
			err := a.Validate()
			assert.ErrorIs(t, err, ErrInvalidModel)
		})
	}

	a := chainArrays(6)
	assert.NoError(t, a.Validate())
}

func TestPaddingIsNotDereferenced(t *testing.T) {
	a := chainArrays(4)
	a.NeighborNumber[0] = 1
	a.NeighborList[1] = -42
	assert.NoError(t, a.Validate())
}

func TestGershgorinBound(t *testing.T) {
	a := chainArrays(5)
	a.Potential[3] = -0.75
	assert.InDelta(t, 2.75, a.GershgorinBound(), 1e-15)
}

func TestFromArraysOrbitals(t *testing.T) {
	_, err := FromArrays(chainArrays(4), WithLocalOrbitals([]int{0, 4}))
	assert.ErrorIs(t, err, ErrInvalidOrbital)

	_, err = FromArrays(chainArrays(5), WithSpin(true))
	assert.ErrorIs(t, err, ErrInvalidModel)

	m, err := FromArrays(chainArrays(4), WithLocalOrbitals([]int{1}), WithSeed(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), m.Seed)
	assert.Equal(t, 4.0, m.Volume)
}

func TestInitializeState(t *testing.T) {
	m, err := FromArrays(chainArrays(64), WithSeed(3))
	require.NoError(t, err)

	v := vector.New(64)
	require.NoError(t, m.InitializeState(m.Rand(0), v, -1))
	for i := 0; i < v.Len(); i++ {
		assert.InDelta(t, 1.0, cmplx.Abs(v.At(i)), 1e-12)
	}
	assert.InDelta(t, 64.0, v.Norm2(), 1e-9)

	w := vector.New(64)
	require.NoError(t, m.InitializeState(m.Rand(0), w, -1))
	assert.Equal(t, v.Real, w.Real, "same trial seed must give the same state")

	require.NoError(t, m.InitializeState(m.Rand(1), w, -1))
	assert.NotEqual(t, v.Real, w.Real)

	require.NoError(t, m.InitializeState(nil, w, 5))
	assert.Equal(t, 1.0, w.Norm2())
	assert.Equal(t, 1.0, w.Real[5])

	assert.ErrorIs(t, m.InitializeState(nil, w, 64), ErrInvalidOrbital)
	assert.ErrorIs(t, m.InitializeState(nil, vector.New(3), -1), vector.ErrLengthMismatch)
}

func TestSpinPolarize(t *testing.T) {
	m, err := FromArrays(chainArrays(8), WithSpin(true))
	require.NoError(t, err)

	v := vector.New(8)
	require.NoError(t, m.InitializeState(m.Rand(0), v, -1))
	m.SpinPolarize(v)
	assert.InDelta(t, 4.0, v.Norm2(), 1e-12)
	assert.Equal(t, 1.0, m.SpinSign(2))
	assert.Equal(t, -1.0, m.SpinSign(3))
}

func TestGrids(t *testing.T) {
	e, err := UniformEnergies(5, -2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, e)

	e, err = UniformEnergies(1, -2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, e)

	_, err = UniformEnergies(0, -1, 1)
	assert.Error(t, err)
	_, err = UniformEnergies(3, 1, -1)
	assert.Error(t, err)

	ts, err := UniformTimeSteps(3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 1.5}, Times(ts))

	_, err = UniformTimeSteps(2, 0)
	assert.Error(t, err)
}
