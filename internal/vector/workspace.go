package vector

import "sync"

// Pool recycles vectors of one length across trials.
type Pool struct {
	pool sync.Pool
	size int
}

func NewPool(size int) *Pool {
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return New(size)
			},
		},
	}
}

// Get returns a zeroed vector.
func (p *Pool) Get() *Vector {
	return p.pool.Get().(*Vector)
}

func (p *Pool) Put(v *Vector) {
	if v == nil || v.Len() != p.size {
		return
	}
	v.Zero()
	p.pool.Put(v)
}

func (p *Pool) GetAndCopy(src *Vector) *Vector {
	dst := p.Get()
	dst.CopyFrom(src)
	return dst
}

// Workspace is the scratch memory one recursion sequence borrows. It is
// owned by a single trial and must not be shared between goroutines.
type Workspace struct {
	pool *Pool
	held []*Vector
}

func NewWorkspace(pool *Pool) *Workspace {
	return &Workspace{pool: pool}
}

// Vectors hands out k zeroed vectors that stay valid until Release.
func (w *Workspace) Vectors(k int) []*Vector {
	out := make([]*Vector, k)
	for i := range out {
		out[i] = w.pool.Get()
		w.held = append(w.held, out[i])
	}
	return out
}

// Copy hands out a vector initialised from src.
func (w *Workspace) Copy(src *Vector) *Vector {
	v := w.pool.GetAndCopy(src)
	w.held = append(w.held, v)
	return v
}

func (w *Workspace) Size() int { return w.pool.size }

// Return hands vs back before Release, for scratch used inside a loop.
func (w *Workspace) Return(vs ...*Vector) {
	for _, v := range vs {
		for i, h := range w.held {
			if h == v {
				last := len(w.held) - 1
				w.held[i] = w.held[last]
				w.held = w.held[:last]
				w.pool.Put(v)
				break
			}
		}
	}
}

// Held reports how many vectors are currently lent out.
func (w *Workspace) Held() int { return len(w.held) }

// Release returns every vector handed out since the last Release.
func (w *Workspace) Release() {
	for _, v := range w.held {
		w.pool.Put(v)
	}
	w.held = w.held[:0]
}
