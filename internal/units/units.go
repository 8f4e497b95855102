// Package units holds the physical constants used to move between the
// rescaled Chebyshev domain and laboratory units.
//
// Energies are in eV, lengths in Å and times in fs throughout.
package units

// HbarEVFs is the reduced Planck constant in eV·fs.
const HbarEVFs = 0.6582119569

// ConductanceQuantum e²/h in S.
const ConductanceQuantum = 3.874045865e-5

// FsToNatural converts a time in fs to ħ/eV, the unit in which
// exp(-iHt) takes energies in eV.
func FsToNatural(fs float64) float64 {
	return fs / HbarEVFs
}

// ScaledTimeStep returns the Bessel argument E_max·Δt/ħ of one evolution
// step of dtFs femtoseconds.
func ScaledTimeStep(dtFs, energyMax float64) float64 {
	return FsToNatural(dtFs) * energyMax
}

// VelocitySquared converts a (ħV)² value in (eV·Å)² to (Å/fs)².
func VelocitySquared(ev2A2 float64) float64 {
	return ev2A2 / (HbarEVFs * HbarEVFs)
}

// Siemens converts a conductance in e²/h to S.
func Siemens(e2h float64) float64 {
	return e2h * ConductanceQuantum
}
