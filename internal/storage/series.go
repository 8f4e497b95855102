package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/kpmqt/internal/observables"
)

// Series lists the tables a result can produce, in a stable order.
func Series(res *observables.Result) []string {
	var out []string
	if len(res.DOS) > 0 {
		out = append(out, observables.SeriesDOS)
	}
	if len(res.LDOS) > 0 {
		out = append(out, observables.SeriesLDOS)
	}
	if len(res.VAC0) > 0 {
		out = append(out, observables.SeriesVAC0)
	}
	if len(res.VAC) > 0 {
		out = append(out, observables.SeriesVAC)
	}
	if len(res.MSD) > 0 {
		out = append(out, observables.SeriesMSD)
	}
	if len(res.Spin) > 0 {
		out = append(out, observables.SeriesSpin)
	}
	if len(res.Conductivity) > 0 {
		out = append(out, observables.SeriesKG)
	}
	return out
}

func column(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func energyHeader(first string, energies []float64) []string {
	header := []string{first}
	for _, e := range energies {
		header = append(header, "E="+strconv.FormatFloat(e, 'g', 6, 64))
	}
	return header
}

// Table lays a series out as rows: energy-resolved series have one row per
// energy, time-resolved ones one row per time with a column per energy.
func Table(res *observables.Result, series string) ([]string, [][]float64, error) {
	switch series {
	case observables.SeriesDOS:
		rows := make([][]float64, len(res.Energies))
		for i, e := range res.Energies {
			rows[i] = []float64{e, res.DOS[i], column(res.DOSErr, i)}
		}
		return []string{"energy", "dos", "dos_err"}, rows, nil

	case observables.SeriesLDOS:
		header := []string{"energy"}
		for _, orb := range res.LocalOrbitals {
			header = append(header, "orbital_"+strconv.Itoa(orb))
		}
		rows := make([][]float64, len(res.Energies))
		for i, e := range res.Energies {
			rows[i] = []float64{e}
			for _, l := range res.LDOS {
				rows[i] = append(rows[i], l[i])
			}
		}
		return header, rows, nil

	case observables.SeriesVAC0:
		rows := make([][]float64, len(res.Energies))
		for i, e := range res.Energies {
			rows[i] = []float64{e, res.VAC0[i], column(res.VAC0Err, i)}
		}
		return []string{"energy", "vac0", "vac0_err"}, rows, nil

	case observables.SeriesVAC:
		return energyHeader("time", res.Energies), timeRows(res.CorrelationTimes, res.VAC), nil

	case observables.SeriesMSD:
		return energyHeader("time", res.Energies), timeRows(res.Times, res.MSD), nil

	case observables.SeriesSpin:
		rows := make([][]float64, len(res.Spin))
		for i, sz := range res.Spin {
			rows[i] = []float64{column(res.Times, i), sz, column(res.SpinErr, i)}
		}
		return []string{"time", "sz", "sz_err"}, rows, nil

	case observables.SeriesKG:
		rows := make([][]float64, len(res.Energies))
		for i, e := range res.Energies {
			rows[i] = []float64{e, res.Conductivity[i]}
		}
		return []string{"energy", "conductivity"}, rows, nil

	default:
		return nil, nil, fmt.Errorf("unknown series: %s", series)
	}
}

func timeRows(times []float64, values [][]float64) [][]float64 {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = append([]float64{column(times, i)}, v...)
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeCSV(f, header, rows)
}

func encodeCSV(out io.Writer, header []string, rows [][]float64) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', 10, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadSeries reads one stored table back.
func (s *Store) LoadSeries(runID, series string) ([]string, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), series+".csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d column %d: %w", series, i+1, j, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}
