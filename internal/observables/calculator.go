package observables

import (
	"fmt"

	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/model"
	"github.com/san-kum/kpmqt/internal/vector"
)

// Calculator runs the observable drivers of one operator. It holds no
// per-trial state and is safe for concurrent use.
type Calculator struct {
	h    *hamiltonian.Hamiltonian
	m    *model.Model
	opts Options
	pool *vector.Pool
}

func NewCalculator(h *hamiltonian.Hamiltonian, m *model.Model, opts Options) (*Calculator, error) {
	if h.N() != m.N {
		return nil, fmt.Errorf("%w: operator has %d orbitals, model has %d", ErrConfig, h.N(), m.N)
	}
	if err := opts.Validate(m); err != nil {
		return nil, err
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Calculator{h: h, m: m, opts: opts, pool: vector.NewPool(m.N)}, nil
}

func (c *Calculator) Options() Options                      { return c.opts }
func (c *Calculator) Model() *model.Model                   { return c.m }
func (c *Calculator) Hamiltonian() *hamiltonian.Hamiltonian { return c.h }

func (c *Calculator) workspace() *vector.Workspace {
	return vector.NewWorkspace(c.pool)
}

func (c *Calculator) checkState(r *vector.Vector) error {
	if r == nil || r.Len() != c.m.N {
		return fmt.Errorf("%w: initial state does not match %d orbitals", vector.ErrLengthMismatch, c.m.N)
	}
	return nil
}

// recurse visits T_m(H̃) seed for m = 0 .. count-1. The visited vector is
// only valid during the callback.
func (c *Calculator) recurse(ws *vector.Workspace, seed *vector.Vector, count int, visit func(m int, t *vector.Vector)) error {
	s := ws.Vectors(3)
	defer ws.Return(s...)
	s0, s1, s2 := s[0], s[1], s[2]

	s0.CopyFrom(seed)
	visit(0, s0)
	if count < 2 {
		return nil
	}
	if err := c.h.Apply(s0, s1); err != nil {
		return err
	}
	visit(1, s1)
	for m := 2; m < count; m++ {
		if err := c.h.Advance(s0, s1, s2); err != nil {
			return err
		}
		visit(m, s2)
		s0, s1, s2 = s1, s2, s0
	}
	return nil
}

// moments fills dst with Re<left|T_m(H̃)|right>.
func (c *Calculator) moments(ws *vector.Workspace, left, right *vector.Vector, dst []float64) error {
	return c.recurse(ws, right, len(dst), func(m int, t *vector.Vector) {
		dst[m] = real(left.Inner(t))
	})
}
