// Package observables turns Chebyshev recursions into physical quantities.
//
// A [Calculator] binds a Hamiltonian to its model and runs the per-state
// drivers:
//
//   - [Calculator.FindDOS]: moments of the density of states
//   - [Calculator.FindVAC0]: velocity autocorrelation at t = 0
//   - [Calculator.FindVAC]: velocity autocorrelation over the correlation steps
//   - [Calculator.FindMSD]: mean-square displacement over the correlation steps
//   - [Calculator.FindSpinPolarization]: decay of an initially polarised spin
//   - [Calculator.FindMomentsKG]: two-dimensional Kubo-Greenwood moments
//
// An [Ensemble] repeats the drivers over independent random vectors, merges
// the per-trial moments in trial order, averages, applies the damping kernel
// and reconstructs energy-resolved curves:
//
//	calc, _ := observables.NewCalculator(h, m, opts)
//	res, err := observables.NewEnsemble(calc, log).Run(ctx)
//
// Time evolution over one step uses the Chebyshev-Bessel expansion
// U(Δt) = J_0(τ) + 2 Σ (∓i)^m J_m(τ) T_m(H̃) with τ = E_max Δt/ħ, truncated
// once |J_m(τ)| drops below 1e-15.
//
// # Thread Safety
//
// A Calculator may run many trials concurrently; each trial owns its
// workspace and its random generator. Cancellation is honoured between
// trials, never inside a recursion.
package observables
