package observables

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kpmqt/internal/vector"
)

// Accumulator sums per-trial series. Trials must be added in trial order;
// averages then do not depend on how the trials were scheduled. Only the
// series named at construction keep per-trial copies for error bars, every
// other series costs one running sum regardless of the trial count.
type Accumulator struct {
	sums   map[string][]float64
	counts map[string]int
	keep   map[string]bool
	trials map[string][][]float64
}

func NewAccumulator(keep ...string) *Accumulator {
	a := &Accumulator{
		sums:   make(map[string][]float64),
		counts: make(map[string]int),
		keep:   make(map[string]bool, len(keep)),
		trials: make(map[string][][]float64),
	}
	for _, name := range keep {
		a.keep[name] = true
	}
	return a
}

func (a *Accumulator) Add(name string, values []float64) error {
	sum, ok := a.sums[name]
	switch {
	case !ok:
		a.sums[name] = append([]float64(nil), values...)
	case len(sum) != len(values):
		return fmt.Errorf("%w: series %s has %d values, trial has %d", vector.ErrLengthMismatch, name, len(sum), len(values))
	default:
		floats.Add(sum, values)
	}
	a.counts[name]++
	if a.keep[name] {
		a.trials[name] = append(a.trials[name], append([]float64(nil), values...))
	}
	return nil
}

func (a *Accumulator) Count(name string) int {
	return a.counts[name]
}

func (a *Accumulator) Names() []string {
	names := make([]string, 0, len(a.sums))
	for name := range a.sums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trials returns the per-trial copies of a kept series, nil otherwise.
func (a *Accumulator) Trials(name string) [][]float64 {
	return a.trials[name]
}

// Mean returns the element-wise average, or nil for an unknown series.
func (a *Accumulator) Mean(name string) []float64 {
	sum, ok := a.sums[name]
	if !ok {
		return nil
	}
	mean := append([]float64(nil), sum...)
	floats.Scale(1/float64(a.counts[name]), mean)
	return mean
}

// StdErr returns the element-wise standard error of the mean of a kept
// series. It is zero with fewer than two trials and nil for series without
// per-trial copies.
func (a *Accumulator) StdErr(name string) []float64 {
	trials := a.trials[name]
	if len(trials) == 0 {
		return nil
	}
	out := make([]float64, len(trials[0]))
	if len(trials) < 2 {
		return out
	}
	col := make([]float64, len(trials))
	sqrtN := math.Sqrt(float64(len(trials)))
	for i := range out {
		for t, values := range trials {
			col[t] = values[i]
		}
		_, sd := stat.MeanStdDev(col, nil)
		out[i] = sd / sqrtN
	}
	return out
}
