package export

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roach88/borate/internal/batch"
)

// Plot dimensions in pixels.
const (
	PlotWidth  = 1024
	PlotHeight = 640
)

var seriesColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
}

// PlotTitle is the chart title for a display curve.
func PlotTitle(d *batch.DisplayCurve) string {
	return fmt.Sprintf("Cumulative Y (Integration interval %g–%g, C=%g)",
		d.IntervalMin, d.IntervalMax, d.Concentration)
}

// RenderPlot draws Y1..Y5 of d over the display pH range as a PNG, with
// dashed vertical lines at the integration bounds.
func RenderPlot(w io.Writer, d *batch.DisplayCurve) error {
	if d == nil || len(d.PH) < 2 {
		return fmt.Errorf("render plot: display curve is empty")
	}

	series := make([]chart.Series, 0, len(seriesColors)+2)
	for i, col := range seriesColors {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Y%d", i+1),
			XValues: d.PH,
			YValues: d.Cumulative(i + 1),
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
		})
	}
	for _, x := range []float64{d.IntervalMin, d.IntervalMax} {
		series = append(series, boundLine(x))
	}

	ch := chart.Chart{
		Title:      PlotTitle(d),
		Width:      PlotWidth,
		Height:     PlotHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "pH",
			Range: &chart.ContinuousRange{Min: batch.DisplayPHMin, Max: batch.DisplayPHMax},
		},
		YAxis: chart.YAxis{
			Name:  "Cumulative Y",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	return nil
}

// boundLine is a dashed vertical line at pH x spanning the full y range.
func boundLine(x float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    fmt.Sprintf("pH %g", x),
		XValues: []float64{x, x},
		YValues: []float64{0, 1},
		Style: chart.Style{
			StrokeColor:     chart.ColorAlternateGray,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{6, 4},
		},
	}
}
