// Package viz renders runs in the terminal.
//
//   - [Plot] and [PlotMany]: asciigraph line charts of reconstructed curves
//   - [SparklineChart]: one-line overview used by run listings
//   - [Progress]: a Bubble Tea view of an ensemble in flight
//
// Styles are lipgloss definitions shared by every command.
package viz
