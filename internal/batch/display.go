package batch

import (
	"github.com/roach88/borate/internal/solver"
	"github.com/roach88/borate/internal/speciation"
)

// Display curve sampling. The range is fixed and independent of the
// integration interval.
const (
	DisplayPHMin  = 2.0
	DisplayPHMax  = 14.0
	DisplayPoints = 600
)

// DisplayCurve holds cumulative fractions Y1..Y5 over the fixed display
// range, for plotting only.
type DisplayCurve struct {
	Concentration float64
	PH            []float64
	Y             [][speciation.SpeciesCount]float64

	// IntervalMin and IntervalMax are the integration bounds of the run,
	// drawn as markers on the plot.
	IntervalMin float64
	IntervalMax float64
}

// NewDisplayCurve evaluates the display curve for concentration c.
func NewDisplayCurve(c, intervalMin, intervalMax float64) *DisplayCurve {
	grid := span(DisplayPHMin, DisplayPHMax, DisplayPoints)
	d := &DisplayCurve{
		Concentration: c,
		PH:            grid.PH,
		Y:             make([][speciation.SpeciesCount]float64, grid.Len()),
		IntervalMin:   intervalMin,
		IntervalMax:   intervalMax,
	}
	for i, y := range grid.Activity {
		x := solver.FreeMonomer(c, y)
		d.Y[i] = speciation.SpeciesFractions(x, y, c).Y
	}
	return d
}

// Cumulative returns Y_i (i in 1..5) at every display point.
func (d *DisplayCurve) Cumulative(i int) []float64 {
	out := make([]float64, len(d.Y))
	for j, y := range d.Y {
		out[j] = y[i-1]
	}
	return out
}
