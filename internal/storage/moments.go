package storage

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/kpmqt/internal/observables"
)

const momentsFile = "moments.msgpack.zst"

// momentsRecord is the on-disk form of the undamped moments. It carries
// everything Reconstruct needs.
type momentsRecord struct {
	EnergyMax         float64              `msgpack:"energy_max"`
	Volume            float64              `msgpack:"volume"`
	NumberOfMoments   int                  `msgpack:"number_of_moments"`
	NumberOfMomentsKG int                  `msgpack:"number_of_moments_kg"`
	LocalOrbitals     []int                `msgpack:"local_orbitals"`
	Energies          []float64            `msgpack:"energies"`
	CorrelationTimes  []float64            `msgpack:"correlation_times"`
	Times             []float64            `msgpack:"times"`
	Moments           map[string][]float64 `msgpack:"moments"`
	// Error bars cannot be rebuilt from averaged moments.
	DOSErr  []float64 `msgpack:"dos_err"`
	VAC0Err []float64 `msgpack:"vac0_err"`
	SpinErr []float64 `msgpack:"spin_err"`
}

func writeMoments(path string, res *observables.Result) error {
	rec := momentsRecord{
		EnergyMax:         res.EnergyMax,
		Volume:            res.Volume,
		NumberOfMoments:   res.NumberOfMoments,
		NumberOfMomentsKG: res.NumberOfMomentsKG,
		LocalOrbitals:     res.LocalOrbitals,
		Energies:          res.Energies,
		CorrelationTimes:  res.CorrelationTimes,
		Times:             res.Times,
		Moments:           res.Moments,
		DOSErr:            res.DOSErr,
		VAC0Err:           res.VAC0Err,
		SpinErr:           res.SpinErr,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(&rec); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func readMoments(path string) (*observables.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var rec momentsRecord
	if err := msgpack.NewDecoder(zr).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &observables.Result{
		EnergyMax:         rec.EnergyMax,
		Volume:            rec.Volume,
		NumberOfMoments:   rec.NumberOfMoments,
		NumberOfMomentsKG: rec.NumberOfMomentsKG,
		LocalOrbitals:     rec.LocalOrbitals,
		Energies:          rec.Energies,
		CorrelationTimes:  rec.CorrelationTimes,
		Times:             rec.Times,
		Moments:           rec.Moments,
		DOSErr:            rec.DOSErr,
		VAC0Err:           rec.VAC0Err,
		SpinErr:           rec.SpinErr,
	}, nil
}
