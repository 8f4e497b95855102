package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/kpmqt/internal/observables"
)

type ExportData struct {
	Run    *RunMetadata        `json:"run"`
	Result *observables.Result `json:"result"`
}

// ExportJSON writes a run and its reconstructed curves as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, res *observables.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Result: res})
}

// ExportCSV writes one series of res as CSV.
func ExportCSV(w io.Writer, res *observables.Result, series string) error {
	header, rows, err := Table(res, series)
	if err != nil {
		return err
	}
	return encodeCSV(w, header, rows)
}
