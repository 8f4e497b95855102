package hamiltonian

import (
	"fmt"
	"math"
)

// KernelPolynomial multiplies raw moments element-wise by damping
// coefficients. in and out may be the same slice.
func KernelPolynomial(in, kernel, out []float64) error {
	if len(in) != len(kernel) || len(out) != len(in) {
		return fmt.Errorf("%w: moments %d, kernel %d, out %d", ErrDimensionMismatch, len(in), len(kernel), len(out))
	}
	for k := range in {
		out[k] = in[k] * kernel[k]
	}
	return nil
}

// DampBlocks applies KernelPolynomial to every consecutive block of
// len(kernel) moments, e.g. one block per correlation time step.
func DampBlocks(flat, kernel []float64) ([]float64, error) {
	m := len(kernel)
	if m == 0 || len(flat)%m != 0 {
		return nil, fmt.Errorf("%w: %d values, kernel of %d", ErrDimensionMismatch, len(flat), m)
	}
	out := make([]float64, len(flat))
	for start := 0; start < len(flat); start += m {
		if err := KernelPolynomial(flat[start:start+m], kernel, out[start:start+m]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Damp2D damps row-major moments μ_mn by g_m g_n.
func Damp2D(mu, kernel []float64) ([]float64, error) {
	m := len(kernel)
	if len(mu) != m*m {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrDimensionMismatch, len(mu), m, m)
	}
	outer := make([]float64, m*m)
	for i, gi := range kernel {
		for j, gj := range kernel {
			outer[i*m+j] = gi * gj
		}
	}
	out := make([]float64, len(mu))
	if err := KernelPolynomial(mu, outer, out); err != nil {
		return nil, err
	}
	return out, nil
}

// JacksonKernel returns the Jackson damping factors for m moments.
func JacksonKernel(m int) []float64 {
	g := make([]float64, m)
	if m == 0 {
		return g
	}
	a := 1 / float64(m+1)
	cot := 1 / math.Tan(math.Pi*a)
	for k := range g {
		x := math.Pi * float64(k) * a
		g[k] = (1-float64(k)*a)*math.Cos(x) + math.Sin(x)*a*cot
	}
	return g
}

// LorentzKernel returns sinh(λ(1-k/m))/sinh(λ), which preserves the
// analytic structure of Green's functions better than Jackson.
func LorentzKernel(m int, lambda float64) []float64 {
	g := make([]float64, m)
	if m == 0 {
		return g
	}
	if lambda <= 0 {
		for k := range g {
			g[k] = 1
		}
		return g
	}
	norm := math.Sinh(lambda)
	for k := range g {
		g[k] = math.Sinh(lambda*(1-float64(k)/float64(m))) / norm
	}
	return g
}

// Kernel kinds accepted by NewKernel.
const (
	KernelJackson = "jackson"
	KernelLorentz = "lorentz"
	KernelNone    = "none"
)

// NewKernel returns the damping factors of the named kernel.
func NewKernel(kind string, m int, lambda float64) ([]float64, error) {
	switch kind {
	case KernelJackson, "":
		return JacksonKernel(m), nil
	case KernelLorentz:
		return LorentzKernel(m, lambda), nil
	case KernelNone:
		return LorentzKernel(m, 0), nil
	default:
		return nil, fmt.Errorf("unknown kernel: %s", kind)
	}
}
