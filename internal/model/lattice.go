package model

import (
	"fmt"
	"math"
	"math/rand"
)

// energyMargin is added to the Gershgorin bound when the energy scale is
// left to the builder.
const energyMargin = 0.1

// impurityCutoff is the range, in screening lengths, beyond which a charged
// impurity no longer shifts onsite energies.
const impurityCutoff = 6

// LatticeConfig describes a hypercubic tight-binding lattice. Axis 0 is the
// transport direction.
type LatticeConfig struct {
	Dims     []int
	Periodic []bool
	// Spacing is the lattice constant in Å.
	Spacing float64
	// Hopping t in eV; bonds carry -t.
	Hopping float64
	// Anderson disorder strength W in eV; onsite energies are uniform in
	// [-W/2, W/2].
	Anderson float64
	// VacancyConcentration is the fraction of sites removed.
	VacancyConcentration float64
	// ChargedImpurities is the fraction of sites hosting a charged
	// impurity of random sign. Each adds the screened Coulomb potential
	// ±U·exp(-r/ξ)·a/sqrt(r²+a²) to nearby onsite energies.
	ChargedImpurities float64
	// ImpurityStrength U in eV.
	ImpurityStrength float64
	// ScreeningLength ξ in Å; zero means one lattice spacing.
	ScreeningLength float64
	// Spin doubles every site into an up and a down orbital.
	Spin bool
	// SpinFlip is the amplitude of the i*lambda hopping between
	// neighbouring up and down orbitals.
	SpinFlip float64
	// EnergyMax overrides the automatic spectral bound when positive.
	EnergyMax float64
}

func (c LatticeConfig) validate() error {
	if len(c.Dims) == 0 || len(c.Dims) > 3 {
		return fmt.Errorf("%w: lattice needs 1 to 3 dimensions, got %d", ErrInvalidModel, len(c.Dims))
	}
	for axis, d := range c.Dims {
		if d <= 0 {
			return fmt.Errorf("%w: dimension %d has size %d", ErrInvalidModel, axis, d)
		}
	}
	if len(c.Periodic) != 0 && len(c.Periodic) != len(c.Dims) {
		return fmt.Errorf("%w: %d periodic flags for %d dimensions", ErrInvalidModel, len(c.Periodic), len(c.Dims))
	}
	if c.VacancyConcentration < 0 || c.VacancyConcentration >= 1 {
		return fmt.Errorf("%w: vacancy concentration %g outside [0, 1)", ErrInvalidModel, c.VacancyConcentration)
	}
	if c.Anderson < 0 {
		return fmt.Errorf("%w: negative Anderson disorder %g", ErrInvalidModel, c.Anderson)
	}
	if c.ChargedImpurities < 0 || c.ChargedImpurities > 1 {
		return fmt.Errorf("%w: charged impurity concentration %g outside [0, 1]", ErrInvalidModel, c.ChargedImpurities)
	}
	if c.ScreeningLength < 0 {
		return fmt.Errorf("%w: negative screening length %g", ErrInvalidModel, c.ScreeningLength)
	}
	return nil
}

func (c LatticeConfig) periodic(axis int) bool {
	if len(c.Periodic) == 0 {
		return true
	}
	return c.Periodic[axis]
}

type bond struct {
	to int
	// dx is the displacement along axis 0 in units of the spacing.
	dx float64
	// sign is +1 for a bond in the positive direction of its axis.
	sign float64
}

// NewLattice builds the arrays of a disordered hypercubic lattice. The
// disorder and vacancy placement are drawn from a generator seeded with seed.
func NewLattice(cfg LatticeConfig, seed int64, opts ...Option) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = 1
	}

	rng := rand.New(rand.NewSource(seed))

	sites := 1
	for _, d := range cfg.Dims {
		sites *= d
	}

	vacant := make([]bool, sites)
	numVacancies := int(math.Round(cfg.VacancyConcentration * float64(sites)))
	for _, idx := range rng.Perm(sites)[:numVacancies] {
		vacant[idx] = true
	}

	// Old site index to compacted index, -1 for vacancies.
	newIndex := make([]int, sites)
	kept := 0
	for i := range newIndex {
		if vacant[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = kept
		kept++
	}
	if kept == 0 {
		return nil, fmt.Errorf("%w: every site is vacant", ErrInvalidModel)
	}

	orbitals := 1
	if cfg.Spin {
		orbitals = 2
	}
	maxBonds := 2 * len(cfg.Dims)
	maxNeighbor := maxBonds * orbitals

	n := kept * orbitals
	a := Arrays{
		N:              n,
		MaxNeighbor:    maxNeighbor,
		NeighborNumber: make([]int, n),
		NeighborList:   make([]int, n*maxNeighbor),
		Potential:      make([]float64, n),
		HoppingReal:    make([]float64, n*maxNeighbor),
		HoppingImag:    make([]float64, n*maxNeighbor),
		XX:             make([]float64, n*maxNeighbor),
	}

	coords := make([]int, len(cfg.Dims))
	for site := 0; site < sites; site++ {
		if vacant[site] {
			continue
		}
		ns := newIndex[site]
		unflatten(site, cfg.Dims, coords)

		onsite := 0.0
		if cfg.Anderson > 0 {
			onsite = (rng.Float64() - 0.5) * cfg.Anderson
		}

		bonds := neighbours(coords, cfg)
		for s := 0; s < orbitals; s++ {
			i := ns*orbitals + s
			a.Potential[i] = onsite
			k := 0
			for _, b := range bonds {
				if vacant[b.to] {
					continue
				}
				nj := newIndex[b.to]
				base := i*maxNeighbor + k
				a.NeighborList[base] = nj*orbitals + s
				a.HoppingReal[base] = -cfg.Hopping
				a.XX[base] = b.dx * cfg.Spacing
				k++

				if cfg.Spin && cfg.SpinFlip != 0 {
					base = i*maxNeighbor + k
					a.NeighborList[base] = nj*orbitals + (1 - s)
					a.HoppingImag[base] = cfg.SpinFlip * b.sign
					a.XX[base] = b.dx * cfg.Spacing
					k++
				}
			}
			a.NeighborNumber[i] = k
		}
	}

	if cfg.ChargedImpurities > 0 && cfg.ImpurityStrength != 0 {
		addChargedImpurities(cfg, rng, sites, newIndex, orbitals, a.Potential)
	}

	a.EnergyMax = cfg.EnergyMax
	if a.EnergyMax <= 0 {
		a.EnergyMax = a.GershgorinBound() + energyMargin
	}

	volume := float64(kept)
	for range cfg.Dims {
		volume *= cfg.Spacing
	}

	base := []Option{WithVolume(volume), WithSpin(cfg.Spin), WithSeed(seed)}
	return FromArrays(a, append(base, opts...)...)
}

// addChargedImpurities places round(c·sites) impurities on random sites,
// vacancies included, and adds their potential to every orbital within
// impurityCutoff screening lengths. Periodic axes use the minimum image.
func addChargedImpurities(cfg LatticeConfig, rng *rand.Rand, sites int, newIndex []int, orbitals int, potential []float64) {
	xi := cfg.ScreeningLength
	if xi <= 0 {
		xi = cfg.Spacing
	}
	cutoff := impurityCutoff * xi
	reach := int(math.Ceil(cutoff / cfg.Spacing))

	count := int(math.Round(cfg.ChargedImpurities * float64(sites)))
	centre := make([]int, len(cfg.Dims))
	target := make([]int, len(cfg.Dims))
	axes := make([][][2]int, len(cfg.Dims))

	for _, site := range rng.Perm(sites)[:count] {
		charge := cfg.ImpurityStrength
		if rng.Intn(2) == 0 {
			charge = -charge
		}
		unflatten(site, cfg.Dims, centre)

		// Per axis: reachable coordinates and their displacement.
		box := 1
		for axis, d := range cfg.Dims {
			axes[axis] = axes[axis][:0]
			periodic := cfg.periodic(axis)
			lo, hi := centre[axis]-reach, centre[axis]+reach
			if hi-lo+1 >= d {
				lo, hi = 0, d-1
				if periodic {
					lo, hi = centre[axis]-d/2, centre[axis]-d/2+d-1
				}
			}
			for x := lo; x <= hi; x++ {
				wrapped := x
				if x < 0 || x >= d {
					if !periodic {
						continue
					}
					wrapped = ((x % d) + d) % d
				}
				axes[axis] = append(axes[axis], [2]int{wrapped, x - centre[axis]})
			}
			box *= len(axes[axis])
		}

		for cell := 0; cell < box; cell++ {
			rest := cell
			r2 := 0.0
			for axis := range cfg.Dims {
				entry := axes[axis][rest%len(axes[axis])]
				rest /= len(axes[axis])
				target[axis] = entry[0]
				delta := float64(entry[1]) * cfg.Spacing
				r2 += delta * delta
			}
			r := math.Sqrt(r2)
			if r > cutoff {
				continue
			}
			ns := newIndex[flatten(target, cfg.Dims)]
			if ns < 0 {
				continue
			}
			v := charge * math.Exp(-r/xi) * cfg.Spacing / math.Sqrt(r2+cfg.Spacing*cfg.Spacing)
			for s := 0; s < orbitals; s++ {
				potential[ns*orbitals+s] += v
			}
		}
	}
}

func unflatten(site int, dims []int, coords []int) {
	for axis, d := range dims {
		coords[axis] = site % d
		site /= d
	}
}

func flatten(coords []int, dims []int) int {
	site := 0
	stride := 1
	for axis, d := range dims {
		site += coords[axis] * stride
		stride *= d
	}
	return site
}

func neighbours(coords []int, cfg LatticeConfig) []bond {
	out := make([]bond, 0, 2*len(cfg.Dims))
	nb := make([]int, len(coords))
	for axis, d := range cfg.Dims {
		for _, step := range []int{1, -1} {
			copy(nb, coords)
			nb[axis] += step
			if nb[axis] < 0 || nb[axis] >= d {
				if !cfg.periodic(axis) || d == 1 {
					continue
				}
				nb[axis] = (nb[axis] + d) % d
			}

			dx := 0.0
			if axis == 0 {
				dx = float64(step)
			}
			out = append(out, bond{to: flatten(nb, cfg.Dims), dx: dx, sign: float64(step)})
		}
	}
	return out
}
