// Package compute provides the execution backends used by the operator
// kernels.
//
// Two interchangeable backends exist:
//
//   - serial: the whole index range runs on the calling goroutine
//   - parallel: the range is split into contiguous chunks, one goroutine each
//
// Kernels are written once as range functions, so both backends run the same
// arithmetic per site:
//
//	backend := compute.NewParallel(0)
//	backend.For(n, func(start, end int) {
//	    for i := start; i < end; i++ {
//	        out[i] = 2 * in[i]
//	    }
//	})
//
// For returns only after every chunk has completed, which is the barrier
// between two recursion steps.
package compute
