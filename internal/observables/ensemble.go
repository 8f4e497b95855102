package observables

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/model"
	"github.com/san-kum/kpmqt/internal/units"
)

// Ensemble averages the drivers of a Calculator over independent random
// vectors.
type Ensemble struct {
	calc     *Calculator
	log      zerolog.Logger
	progress func(done, total int)
}

func NewEnsemble(calc *Calculator, log zerolog.Logger) *Ensemble {
	return &Ensemble{calc: calc, log: log.With().Str("component", "ensemble").Logger()}
}

// OnProgress registers fn to be called after every finished trial or local
// orbital. fn may be called from several goroutines at once.
func (e *Ensemble) OnProgress(fn func(done, total int)) *Ensemble {
	e.progress = fn
	return e
}

func (e *Ensemble) report(done *atomic.Int64, total int) {
	n := int(done.Add(1))
	if e.progress != nil {
		e.progress(n, total)
	}
}

// Run executes every trial and every local orbital, then reconstructs the
// averaged curves. The first failing trial cancels the rest.
func (e *Ensemble) Run(ctx context.Context) (*Result, error) {
	c := e.calc
	opts := c.opts
	start := time.Now()

	e.log.Info().
		Int("orbitals", c.m.N).
		Int("trials", opts.NumberOfRandomVectors).
		Int("moments", opts.NumberOfMoments).
		Strs("series", c.Series()).
		Str("backend", c.h.Backend().Name()).
		Msg("starting ensemble")

	merge := newTrialMerger(c.Series())
	var ldos [][]float64
	if opts.CalculateLDOS {
		ldos = make([][]float64, len(c.m.LocalOrbitals))
	}

	total := opts.NumberOfRandomVectors + len(ldos)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for t := 0; t < opts.NumberOfRandomVectors; t++ {
		if gctx.Err() != nil {
			break
		}
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			res, err := c.RunTrial(t)
			if err != nil {
				return err
			}
			if err := merge.add(t, res); err != nil {
				return err
			}
			e.log.Debug().Int("trial", t).Dur("took", time.Since(began)).Msg("trial finished")
			e.report(&done, total)
			return nil
		})
	}
	for i, orb := range c.m.LocalOrbitals {
		if ldos == nil || gctx.Err() != nil {
			break
		}
		i, orb := i, orb
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mu, err := c.FindLDOS(orb)
			if err != nil {
				return &TrialError{Driver: SeriesLDOS, Trial: i, Wrapped: err}
			}
			if err := checkFinite(SeriesLDOS, i, mu); err != nil {
				return err
			}
			ldos[i] = mu
			e.report(&done, total)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.log.Error().Err(err).Msg("ensemble aborted")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := e.finalize(merge.acc, ldos)
	if err != nil {
		return nil, err
	}
	out.Elapsed = time.Since(start)

	e.log.Info().Dur("elapsed", out.Elapsed).Msg("ensemble finished")
	return out, nil
}

// trialMerger feeds finished trials into an Accumulator in trial order.
// Out-of-order results wait in pending until their predecessors arrive.
type trialMerger struct {
	mu      sync.Mutex
	acc     *Accumulator
	series  []string
	next    int
	pending map[int]map[string][]float64
}

func newTrialMerger(series []string) *trialMerger {
	return &trialMerger{
		acc:     NewAccumulator(SeriesDOS, SeriesVAC0, SeriesSpin),
		series:  series,
		pending: make(map[int]map[string][]float64),
	}
}

func (m *trialMerger) add(trial int, res map[string][]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[trial] = res
	for {
		ready, ok := m.pending[m.next]
		if !ok {
			return nil
		}
		delete(m.pending, m.next)
		for _, name := range m.series {
			if err := m.acc.Add(name, ready[name]); err != nil {
				return err
			}
		}
		m.next++
	}
}

func (e *Ensemble) finalize(acc *Accumulator, ldos [][]float64) (*Result, error) {
	c := e.calc
	opts := c.opts

	res := &Result{
		Backend:         c.h.Backend().Name(),
		Trials:          opts.NumberOfRandomVectors,
		EnergyMax:       c.h.EnergyMax(),
		Volume:          c.m.Volume,
		NumberOfMoments: opts.NumberOfMoments,
		LocalOrbitals:   append([]int(nil), c.m.LocalOrbitals...),
		Energies:        append([]float64(nil), c.m.Energies...),
		Moments:         make(map[string][]float64),
	}
	if opts.CalculateMomentsKG {
		res.NumberOfMomentsKG = opts.NumberOfMomentsKG
	}
	if len(c.m.TimeSteps) > 0 {
		res.Times = model.Times(c.m.TimeSteps)
		res.CorrelationTimes = append([]float64{0}, res.Times[:len(res.Times)-1]...)
	}

	for _, name := range acc.Names() {
		res.Moments[name] = acc.Mean(name)
	}
	if ldos != nil {
		flat := make([]float64, 0, len(ldos)*opts.NumberOfMoments)
		for _, mu := range ldos {
			flat = append(flat, mu...)
		}
		res.Moments[SeriesLDOS] = flat
	}

	if err := res.Reconstruct(opts.Kernel, opts.LorentzLambda); err != nil {
		return nil, err
	}

	g, err := hamiltonian.NewKernel(opts.Kernel, opts.NumberOfMoments, opts.LorentzLambda)
	if err != nil {
		return nil, err
	}
	if res.DOSErr, err = curveErr(acc.Trials(SeriesDOS), func(mu []float64) ([]float64, error) {
		return res.spectrum(mu, g)
	}); err != nil {
		return nil, fmt.Errorf("dos: %w", err)
	}
	if opts.CalculateVAC0 {
		if res.VAC0Err, err = curveErr(acc.Trials(SeriesVAC0), func(mu []float64) ([]float64, error) {
			return res.perState(mu, g, units.VelocitySquared)
		}); err != nil {
			return nil, fmt.Errorf("vac0: %w", err)
		}
	}
	if opts.CalculateSpin {
		res.SpinErr = acc.StdErr(SeriesSpin)
	}
	return res, nil
}

// curveErr maps every trial through a linear reconstruction and returns
// the standard error of the resulting curves.
func curveErr(trials [][]float64, reconstruct func([]float64) ([]float64, error)) ([]float64, error) {
	curves := NewAccumulator("curve")
	for _, mu := range trials {
		curve, err := reconstruct(mu)
		if err != nil {
			return nil, err
		}
		if err := curves.Add("curve", curve); err != nil {
			return nil, err
		}
	}
	return curves.StdErr("curve"), nil
}
