package viz

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestSparklineChart(t *testing.T) {
	line := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	assert.Equal(t, "▁▂▃▄▅▆▇█", line)
	assert.Equal(t, 4, utf8.RuneCountInString(SparklineChart(make([]float64, 100), 4)))
	assert.Equal(t, "───", SparklineChart(nil, 3))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "██░░", ProgressBar(0.5, 4))
	assert.Equal(t, "████", ProgressBar(2, 4))
	assert.Equal(t, "░░░░", ProgressBar(-1, 4))
}

func TestPlot(t *testing.T) {
	out := Plot([]float64{0, 1, 4, 9, 16}, "msd")
	assert.Contains(t, out, "msd")
	assert.Contains(t, Plot(nil, "dos"), "no data")
	assert.Contains(t, PlotMany([][]float64{{1, 2}, {2, 1}}, "vac"), "vac")
	assert.Equal(t, "[-1, 2.5]", Range([]float64{-1, 0, 2.5}))
}

func TestProgress(t *testing.T) {
	var m tea.Model = NewProgress("square/anderson", 4)
	m, _ = m.Update(TrialMsg{Done: 3, Total: 4})
	p := m.(Progress)
	assert.InDelta(t, 0.75, p.Fraction(), 1e-12)
	assert.Contains(t, p.View(), "3/4 trials")

	m, cmd := m.Update(FinishedMsg{Err: errors.New("trial 2 diverged")})
	require.NotNil(t, cmd)
	view := m.View()
	assert.True(t, strings.Contains(view, "✗"))
	assert.Contains(t, view, "diverged")
}
