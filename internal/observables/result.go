package observables

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/kpmqt/internal/analysis"
	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/units"
)

// Result holds the averaged moments of a run and the curves reconstructed
// from them. Energy-resolved transport quantities are per state.
type Result struct {
	Backend string        `json:"backend"`
	Trials  int           `json:"trials"`
	Elapsed time.Duration `json:"elapsed"`

	EnergyMax         float64 `json:"energy_max"`
	Volume            float64 `json:"volume"`
	NumberOfMoments   int     `json:"number_of_moments"`
	NumberOfMomentsKG int     `json:"number_of_moments_kg,omitempty"`
	LocalOrbitals     []int   `json:"local_orbitals,omitempty"`

	Energies []float64 `json:"energies"`
	// CorrelationTimes are the VAC sampling times 0, t_1 .. t_{N-1} in fs.
	CorrelationTimes []float64 `json:"correlation_times,omitempty"`
	// Times are the MSD and spin sampling times t_1 .. t_N in fs.
	Times []float64 `json:"times,omitempty"`

	// Moments are the undamped trial averages keyed by series name. LDOS
	// blocks are concatenated in LocalOrbitals order.
	Moments map[string][]float64 `json:"-"`

	// DOS in states/eV, integrating to the number of orbitals.
	DOS    []float64   `json:"dos"`
	DOSErr []float64   `json:"dos_err,omitempty"`
	LDOS   [][]float64 `json:"ldos,omitempty"`
	// VAC0 in (Å/fs)².
	VAC0    []float64 `json:"vac0,omitempty"`
	VAC0Err []float64 `json:"vac0_err,omitempty"`
	// VAC[step][energy] in (Å/fs)².
	VAC [][]float64 `json:"vac,omitempty"`
	// MSD[step][energy] in Å².
	MSD     [][]float64 `json:"msd,omitempty"`
	Spin    []float64   `json:"spin,omitempty"`
	SpinErr []float64   `json:"spin_err,omitempty"`
	// Conductivity in e²/h · Å^(2-d).
	Conductivity []float64 `json:"conductivity,omitempty"`
}

// Reconstruct damps the stored moments with the named kernel and rebuilds
// every curve. Error bars are left untouched; they need per-trial data.
func (r *Result) Reconstruct(kernel string, lambda float64) error {
	g, err := hamiltonian.NewKernel(kernel, r.NumberOfMoments, lambda)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	dos, err := r.spectrum(r.Moments[SeriesDOS], g)
	if err != nil {
		return fmt.Errorf("dos: %w", err)
	}
	r.DOS = dos

	r.LDOS = nil
	if flat, ok := r.Moments[SeriesLDOS]; ok {
		rows, err := r.spectrumSeries(flat, g)
		if err != nil {
			return fmt.Errorf("ldos: %w", err)
		}
		r.LDOS = rows
	}

	if mu, ok := r.Moments[SeriesVAC0]; ok {
		vac0, err := r.perState(mu, g, units.VelocitySquared)
		if err != nil {
			return fmt.Errorf("vac0: %w", err)
		}
		r.VAC0 = vac0
	}

	if flat, ok := r.Moments[SeriesVAC]; ok {
		rows, err := r.perStateSeries(flat, g, units.VelocitySquared)
		if err != nil {
			return fmt.Errorf("vac: %w", err)
		}
		r.VAC = rows
	}

	if flat, ok := r.Moments[SeriesMSD]; ok {
		rows, err := r.perStateSeries(flat, g, nil)
		if err != nil {
			return fmt.Errorf("msd: %w", err)
		}
		r.MSD = rows
	}

	if spin, ok := r.Moments[SeriesSpin]; ok {
		r.Spin = append([]float64(nil), spin...)
	}

	if mu, ok := r.Moments[SeriesKG]; ok {
		gkg, err := hamiltonian.NewKernel(kernel, r.NumberOfMomentsKG, lambda)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
		damped, err := hamiltonian.Damp2D(mu, gkg)
		if err != nil {
			return fmt.Errorf("kg: %w", err)
		}
		sigma, err := analysis.Conductivity(damped, r.NumberOfMomentsKG, r.Energies, r.EnergyMax, r.Volume)
		if err != nil {
			return fmt.Errorf("kg: %w", err)
		}
		r.Conductivity = sigma
	}
	return nil
}

func (r *Result) spectrum(mu, g []float64) ([]float64, error) {
	damped, err := hamiltonian.DampBlocks(mu, g)
	if err != nil {
		return nil, err
	}
	return analysis.ChebyshevSum(damped, r.Energies, r.EnergyMax)
}

func (r *Result) spectrumSeries(flat, g []float64) ([][]float64, error) {
	damped, err := hamiltonian.DampBlocks(flat, g)
	if err != nil {
		return nil, err
	}
	return analysis.ChebyshevSumSeries(damped, len(g), r.Energies, r.EnergyMax)
}

// perState divides a reconstructed spectral density by the DOS and applies
// an optional unit conversion.
func (r *Result) perState(mu, g []float64, convert func(float64) float64) ([]float64, error) {
	curve, err := r.spectrum(mu, g)
	if err != nil {
		return nil, err
	}
	return r.normalise(curve, convert)
}

func (r *Result) perStateSeries(flat, g []float64, convert func(float64) float64) ([][]float64, error) {
	rows, err := r.spectrumSeries(flat, g)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if rows[i], err = r.normalise(row, convert); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (r *Result) normalise(curve []float64, convert func(float64) float64) ([]float64, error) {
	out, err := analysis.Divide(curve, r.DOS)
	if err != nil {
		return nil, err
	}
	if convert != nil {
		for i := range out {
			out[i] = convert(out[i])
		}
	}
	return out, nil
}

// Diffusion returns D(t) at energy index e from the VAC running integral,
// in Å²/fs, sampled at CorrelationTimes.
func (r *Result) Diffusion(e int) []float64 {
	if len(r.VAC) == 0 || len(r.CorrelationTimes) < 2 {
		return nil
	}
	dt := r.CorrelationTimes[1] - r.CorrelationTimes[0]
	return analysis.RunningIntegral(analysis.Column(r.VAC, e), dt)
}

// DiffusionMSD returns D(t) = (1/2) d(MSD)/dt at energy index e in Å²/fs.
func (r *Result) DiffusionMSD(e int) []float64 {
	if len(r.MSD) == 0 || len(r.Times) < 2 {
		return nil
	}
	d := analysis.Derivative(analysis.Column(r.MSD, e), r.Times[1]-r.Times[0])
	for i := range d {
		d[i] /= 2
	}
	return d
}

// Summary returns a few scalar figures of merit for logging and listing.
// The conductivity peak in siemens is a sheet conductance for 2-D lattices;
// other dimensions carry an extra Å^(2-d).
func (r *Result) Summary() map[string]float64 {
	s := map[string]float64{}
	if len(r.Energies) > 1 && len(r.DOS) == len(r.Energies) {
		de := r.Energies[1] - r.Energies[0]
		s["dos_integral"] = analysis.RunningIntegral(r.DOS, de)[len(r.DOS)-1]
	}
	if len(r.Spin) > 0 {
		s["spin_final"] = r.Spin[len(r.Spin)-1]
	}
	if len(r.Conductivity) > 0 {
		peak := floats.Max(r.Conductivity)
		s["conductivity_peak"] = peak
		s["conductivity_peak_siemens"] = units.Siemens(peak)
	}
	return s
}
