package vector

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrLengthMismatch = errors.New("vector: length mismatch")

// Vector is a complex state over all orbitals, stored as two parallel
// slices. The length is fixed at construction.
type Vector struct {
	Real []float64
	Imag []float64
}

func New(n int) *Vector {
	return &Vector{
		Real: make([]float64, n),
		Imag: make([]float64, n),
	}
}

// FromComplex builds a vector from interleaved complex amplitudes.
func FromComplex(c []complex128) *Vector {
	v := New(len(c))
	for i, z := range c {
		v.Real[i] = real(z)
		v.Imag[i] = imag(z)
	}
	return v
}

func (v *Vector) Len() int { return len(v.Real) }

func (v *Vector) At(i int) complex128 {
	return complex(v.Real[i], v.Imag[i])
}

func (v *Vector) Set(i int, z complex128) {
	v.Real[i] = real(z)
	v.Imag[i] = imag(z)
}

func (v *Vector) Clone() *Vector {
	c := New(v.Len())
	copy(c.Real, v.Real)
	copy(c.Imag, v.Imag)
	return c
}

// CopyFrom overwrites v with src.
func (v *Vector) CopyFrom(src *Vector) {
	mustMatch(v, src)
	copy(v.Real, src.Real)
	copy(v.Imag, src.Imag)
}

func (v *Vector) Zero() {
	for i := range v.Real {
		v.Real[i] = 0
		v.Imag[i] = 0
	}
}

// Scale multiplies every amplitude by the real factor f.
func (v *Vector) Scale(f float64) {
	floats.Scale(f, v.Real)
	floats.Scale(f, v.Imag)
}

// AddScaled performs v += f*src.
func (v *Vector) AddScaled(f float64, src *Vector) {
	mustMatch(v, src)
	floats.AddScaled(v.Real, f, src.Real)
	floats.AddScaled(v.Imag, f, src.Imag)
}

// Add performs v += src.
func (v *Vector) Add(src *Vector) {
	mustMatch(v, src)
	floats.Add(v.Real, src.Real)
	floats.Add(v.Imag, src.Imag)
}

// Swap exchanges the storage of v and o without copying.
func (v *Vector) Swap(o *Vector) {
	v.Real, o.Real = o.Real, v.Real
	v.Imag, o.Imag = o.Imag, v.Imag
}

// Inner returns <v|o> = sum conj(v_i) o_i.
func (v *Vector) Inner(o *Vector) complex128 {
	mustMatch(v, o)
	re := floats.Dot(v.Real, o.Real) + floats.Dot(v.Imag, o.Imag)
	im := floats.Dot(v.Real, o.Imag) - floats.Dot(v.Imag, o.Real)
	return complex(re, im)
}

// Norm2 returns <v|v>.
func (v *Vector) Norm2() float64 {
	return floats.Dot(v.Real, v.Real) + floats.Dot(v.Imag, v.Imag)
}

func (v *Vector) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

// IsValid reports whether every amplitude is finite.
func (v *Vector) IsValid() bool {
	for i := range v.Real {
		if math.IsNaN(v.Real[i]) || math.IsInf(v.Real[i], 0) ||
			math.IsNaN(v.Imag[i]) || math.IsInf(v.Imag[i], 0) {
			return false
		}
	}
	return true
}

// SameStorage reports whether v and o share their backing arrays.
func (v *Vector) SameStorage(o *Vector) bool {
	if v == o {
		return true
	}
	if v.Len() == 0 || o.Len() == 0 {
		return false
	}
	return &v.Real[0] == &o.Real[0] || &v.Imag[0] == &o.Imag[0]
}

func mustMatch(a, b *Vector) {
	if a.Len() != b.Len() {
		panic(fmt.Errorf("%w: %d != %d", ErrLengthMismatch, a.Len(), b.Len()))
	}
}
