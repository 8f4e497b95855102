// Package analysis turns Chebyshev moments into energy-resolved curves.
//
// [ChebyshevSum] and [ChebyshevSumSeries] evaluate the expansion
//
//	f(E) = (μ_0 + 2 Σ μ_m T_m(E/E_max)) / (π √(1 - (E/E_max)²) E_max)
//
// of one moment vector or of one vector per correlation time. Moments are
// damped beforehand with a kernel from the hamiltonian package.
// [Conductivity] evaluates the Kubo-Greenwood double sum.
//
// The series helpers ([RunningIntegral], [Derivative], [Divide], [Column])
// post-process uniformly sampled curves, e.g. the diffusion coefficient
// from a velocity autocorrelation.
package analysis
