package storage

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/kpmqt/internal/observables"
)

const (
	svgWidth   = 800
	svgHeight  = 480
	svgPadding = 0.05
)

var svgPalette = []string{"#00d7ff", "#ff5f87", "#87ff5f", "#ffaf00", "#af87ff", "#5fffd7"}

// ExportSVG draws every value column of a series against its first column,
// one path per column. Error columns are skipped.
func ExportSVG(w io.Writer, res *observables.Result, series string) error {
	header, rows, err := Table(res, series)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("series %s has %d points, need at least 2", series, len(rows))
	}

	var cols []int
	for c := 1; c < len(header); c++ {
		if !strings.HasSuffix(header[c], "_err") {
			cols = append(cols, c)
		}
	}

	minX, maxX := bounds(rows, []int{0})
	minY, maxY := bounds(rows, cols)
	rangeX := pad(&minX, &maxX)
	rangeY := pad(&minY, &maxY)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#aaaaaa" font-family="monospace" font-size="12">%s vs %s</text>
`, svgWidth, svgHeight, svgWidth, svgHeight, series, header[0])

	for i, c := range cols {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, svgPalette[i%len(svgPalette)])
		for j, row := range rows {
			x := (row[0] - minX) / rangeX * svgWidth
			y := svgHeight - (row[c]-minY)/rangeY*svgHeight
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err = io.WriteString(w, sb.String())
	return err
}

func bounds(rows [][]float64, cols []int) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, c := range cols {
			lo = math.Min(lo, row[c])
			hi = math.Max(hi, row[c])
		}
	}
	return lo, hi
}

// pad widens [lo, hi] by svgPadding on both sides and returns the new width.
func pad(lo, hi *float64) float64 {
	span := *hi - *lo
	if span == 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		span = 1
	}
	*lo -= span * svgPadding
	*hi += span * svgPadding
	return *hi - *lo
}
