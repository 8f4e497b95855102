package observables

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConfig indicates conflicting or incomplete options, detected before
	// any recursion starts.
	ErrConfig = errors.New("observables: invalid configuration")

	// ErrDiverged indicates a trial produced non-finite moments.
	ErrDiverged = errors.New("observables: recursion diverged (NaN or Inf detected)")
)

// TrialError wraps a failure with the driver and random vector it came from.
type TrialError struct {
	Driver  string
	Trial   int
	Wrapped error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("%s, trial %d: %v", e.Driver, e.Trial, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}

func checkFinite(driver string, trial int, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &TrialError{
				Driver:  driver,
				Trial:   trial,
				Wrapped: fmt.Errorf("%w: entry %d = %v", ErrDiverged, i, v),
			}
		}
	}
	return nil
}
