package compute

import (
	"fmt"
	"runtime"
)

// Backend partitions the site index space of one operator application.
// For must not return before every fn call has finished; that return is the
// only synchronisation point between two Chebyshev steps.
type Backend interface {
	Name() string
	Available() bool
	For(n int, fn func(start, end int))
	Cleanup()
}

const (
	KindSerial   = "serial"
	KindParallel = "parallel"
	KindAuto     = "auto"
)

// New returns the backend registered under kind. workers <= 0 means
// runtime.NumCPU().
func New(kind string, workers int) (Backend, error) {
	switch kind {
	case KindSerial:
		return NewSerial(), nil
	case KindParallel:
		return NewParallel(workers), nil
	case KindAuto, "":
		return AutoSelectBackend(workers), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", kind)
	}
}

// AutoSelectBackend picks the parallel backend when more than one CPU is
// usable, else the serial reference.
func AutoSelectBackend(workers int) Backend {
	par := NewParallel(workers)
	if par.Available() {
		return par
	}
	return NewSerial()
}

// Kinds lists the names accepted by New.
func Kinds() []string {
	return []string{KindSerial, KindParallel, KindAuto}
}

func defaultWorkers(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}
