package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 12
)

// Plot draws one curve. Curves longer than width are resampled by
// asciigraph.
func Plot(data []float64, caption string) string {
	if len(data) == 0 {
		return Subtle.Render(fmt.Sprintf("%s: no data", caption))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(DefaultHeight),
		asciigraph.Width(DefaultWidth),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several curves of equal length, e.g. one energy each.
func PlotMany(data [][]float64, caption string) string {
	if len(data) == 0 || len(data[0]) == 0 {
		return Subtle.Render(fmt.Sprintf("%s: no data", caption))
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green, asciigraph.Red, asciigraph.Blue}
	series := make([]asciigraph.AnsiColor, len(data))
	for i := range series {
		series[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(DefaultHeight),
		asciigraph.Width(DefaultWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(series...),
	)
}

// Range returns the bounds of x for axis labels.
func Range(x []float64) string {
	if len(x) == 0 {
		return ""
	}
	return fmt.Sprintf("[%.4g, %.4g]", x[0], x[len(x)-1])
}
