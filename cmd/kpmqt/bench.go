package main

import (
	"time"

	"github.com/san-kum/kpmqt/internal/compute"
	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/model"
	"github.com/san-kum/kpmqt/internal/vector"
)

func timeApply(m *model.Model, be compute.Backend, reps int) (time.Duration, error) {
	h, err := hamiltonian.New(m, be)
	if err != nil {
		return 0, err
	}
	in := vector.New(m.N)
	if err := m.InitializeState(m.Rand(0), in, -1); err != nil {
		return 0, err
	}
	out := vector.New(m.N)

	start := time.Now()
	for i := 0; i < reps; i++ {
		if err := h.Apply(in, out); err != nil {
			return 0, err
		}
		in, out = out, in
	}
	return time.Since(start), nil
}
