package observables

import (
	"github.com/san-kum/kpmqt/internal/vector"
)

type driver struct {
	name string
	find func(*vector.Vector) ([]float64, error)
}

// drivers lists the enabled random-vector drivers in a fixed order.
func (c *Calculator) drivers() []driver {
	ds := []driver{{SeriesDOS, c.FindDOS}}
	if c.opts.CalculateVAC0 {
		ds = append(ds, driver{SeriesVAC0, c.FindVAC0})
	}
	if c.opts.CalculateVAC {
		ds = append(ds, driver{SeriesVAC, c.FindVAC})
	}
	if c.opts.CalculateMSD {
		ds = append(ds, driver{SeriesMSD, c.FindMSD})
	}
	if c.opts.CalculateSpin {
		ds = append(ds, driver{SeriesSpin, c.FindSpinPolarization})
	}
	if c.opts.CalculateMomentsKG {
		ds = append(ds, driver{SeriesKG, c.FindMomentsKG})
	}
	return ds
}

// Series names the outputs one trial produces.
func (c *Calculator) Series() []string {
	ds := c.drivers()
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.name
	}
	return names
}

// RunTrial draws the random vector of trial and feeds it to every enabled
// driver. Results are keyed by series name.
func (c *Calculator) RunTrial(trial int) (map[string][]float64, error) {
	r := c.pool.Get()
	defer c.pool.Put(r)
	if err := c.m.InitializeState(c.m.Rand(trial), r, -1); err != nil {
		return nil, &TrialError{Driver: "init", Trial: trial, Wrapped: err}
	}

	out := make(map[string][]float64)
	for _, d := range c.drivers() {
		values, err := d.find(r)
		if err != nil {
			return nil, &TrialError{Driver: d.name, Trial: trial, Wrapped: err}
		}
		if err := checkFinite(d.name, trial, values); err != nil {
			return nil, err
		}
		out[d.name] = values
	}
	return out, nil
}
