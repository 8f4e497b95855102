package hamiltonian

import (
	"fmt"

	"github.com/san-kum/kpmqt/internal/compute"
	"github.com/san-kum/kpmqt/internal/model"
	"github.com/san-kum/kpmqt/internal/vector"
)

// Hamiltonian is the read-only sparse operator. Entry (i, k) of the bond
// arrays lives at i*maxNeighbor+k.
type Hamiltonian struct {
	backend compute.Backend

	n           int
	maxNeighbor int
	energyMax   float64

	neighborNumber []int
	neighborList   []int
	potential      []float64
	hoppingReal    []float64
	hoppingImag    []float64
	xx             []float64
}

// New copies the model arrays into an operator bound to backend.
func New(m *model.Model, backend compute.Backend) (*Hamiltonian, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if bound := m.GershgorinBound(); bound > m.EnergyMax {
		return nil, fmt.Errorf("%w: energy_max = %g, bound = %g", ErrSpectralBound, m.EnergyMax, bound)
	}
	if backend == nil {
		backend = compute.NewSerial()
	}

	return &Hamiltonian{
		backend:        backend,
		n:              m.N,
		maxNeighbor:    m.MaxNeighbor,
		energyMax:      m.EnergyMax,
		neighborNumber: append([]int(nil), m.NeighborNumber...),
		neighborList:   append([]int(nil), m.NeighborList...),
		potential:      append([]float64(nil), m.Potential...),
		hoppingReal:    append([]float64(nil), m.HoppingReal...),
		hoppingImag:    append([]float64(nil), m.HoppingImag...),
		xx:             append([]float64(nil), m.XX...),
	}, nil
}

func (h *Hamiltonian) N() int                   { return h.n }
func (h *Hamiltonian) EnergyMax() float64       { return h.energyMax }
func (h *Hamiltonian) Backend() compute.Backend { return h.backend }

// Apply computes out = (H/E_max) in.
func (h *Hamiltonian) Apply(in, out *vector.Vector) error {
	if err := h.check([]*vector.Vector{in}, []*vector.Vector{out}); err != nil {
		return err
	}

	scale := 1 / h.energyMax
	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			re, im := h.row(i, in)
			out.Real[i] = re * scale
			out.Imag[i] = im * scale
		}
	})
	return nil
}

// ApplyCommutator computes out = [X, H/E_max] in. The matrix element of the
// commutator is (x_i - x_j) H_ij = -xx H_ij, so no second matrix is stored.
func (h *Hamiltonian) ApplyCommutator(in, out *vector.Vector) error {
	if err := h.check([]*vector.Vector{in}, []*vector.Vector{out}); err != nil {
		return err
	}

	scale := -1 / h.energyMax
	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			re, im := h.rowX(i, in)
			out.Real[i] = re * scale
			out.Imag[i] = im * scale
		}
	})
	return nil
}

// ApplyCurrent computes out = i[H, X] in, the velocity operator times ħ, in
// eV·Å. It is not rescaled by E_max.
func (h *Hamiltonian) ApplyCurrent(in, out *vector.Vector) error {
	if err := h.check([]*vector.Vector{in}, []*vector.Vector{out}); err != nil {
		return err
	}

	h.backend.For(h.n, func(start, end int) {
		for i := start; i < end; i++ {
			re, im := h.rowX(i, in)
			out.Real[i] = -im
			out.Imag[i] = re
		}
	})
	return nil
}

// row returns (H in)_i in physical units.
func (h *Hamiltonian) row(i int, in *vector.Vector) (float64, float64) {
	re := h.potential[i] * in.Real[i]
	im := h.potential[i] * in.Imag[i]
	base := i * h.maxNeighbor
	for k := 0; k < h.neighborNumber[i]; k++ {
		idx := base + k
		j := h.neighborList[idx]
		a, b := h.hoppingReal[idx], h.hoppingImag[idx]
		c, d := in.Real[j], in.Imag[j]
		re += a*c - b*d
		im += a*d + b*c
	}
	return re, im
}

// rowX returns sum_j xx_ij H_ij in_j.
func (h *Hamiltonian) rowX(i int, in *vector.Vector) (float64, float64) {
	var re, im float64
	base := i * h.maxNeighbor
	for k := 0; k < h.neighborNumber[i]; k++ {
		idx := base + k
		j := h.neighborList[idx]
		a, b := h.hoppingReal[idx], h.hoppingImag[idx]
		c, d := in.Real[j], in.Imag[j]
		x := h.xx[idx]
		re += (a*c - b*d) * x
		im += (a*d + b*c) * x
	}
	return re, im
}

// check verifies dimensions and that no output shares storage with an input
// read at neighbouring sites, or with another output.
func (h *Hamiltonian) check(inputs, outputs []*vector.Vector) error {
	for _, v := range append(append([]*vector.Vector(nil), inputs...), outputs...) {
		if v == nil {
			continue
		}
		if v.Len() != h.n {
			return fmt.Errorf("%w: vector has %d components, operator has %d", ErrDimensionMismatch, v.Len(), h.n)
		}
	}
	for oi, out := range outputs {
		if out == nil {
			continue
		}
		for _, in := range inputs {
			if in != nil && out.SameStorage(in) {
				return ErrAliasing
			}
		}
		for _, other := range outputs[oi+1:] {
			if other != nil && out.SameStorage(other) {
				return ErrAliasing
			}
		}
	}
	return nil
}
