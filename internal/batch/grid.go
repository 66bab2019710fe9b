package batch

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/roach88/borate/internal/speciation"
)

// MinPoints is the smallest accepted pH sample count.
const MinPoints = 5

// MaxSamples caps both the pH sample count and the number of values a
// start:end:step range may expand to.
const MaxSamples = 1_000_000

// Grid is an evenly spaced pH sampling with the matching hydrogen-ion
// activities.
type Grid struct {
	PH       []float64
	Activity []float64
}

// NewGrid samples n points over [min, max], both ends included exactly.
func NewGrid(min, max float64, n int) (Grid, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return Grid{}, &InputError{
			Code:    ErrCodeNonFinite,
			Field:   "ph_min",
			Message: "pH bounds must be finite numbers",
		}
	}
	if !(min < max) {
		return Grid{}, newRangeError(min, max)
	}
	if n < MinPoints {
		return Grid{}, newPointsError(n)
	}
	if n > MaxSamples {
		return Grid{}, newSamplesError("points", float64(n))
	}
	return span(min, max, n), nil
}

// span builds a grid without validation; n must be at least 2.
func span(min, max float64, n int) Grid {
	ph := floats.Span(make([]float64, n), min, max)
	ph[n-1] = max
	act := make([]float64, n)
	for i, p := range ph {
		act[i] = speciation.Activity(p)
	}
	return Grid{PH: ph, Activity: act}
}

// Len returns the number of sample points.
func (g Grid) Len() int {
	return len(g.PH)
}

// Min returns the first pH sample.
func (g Grid) Min() float64 {
	return g.PH[0]
}

// Max returns the last pH sample.
func (g Grid) Max() float64 {
	return g.PH[len(g.PH)-1]
}

// Trapezoid integrates samples f taken at the grid's pH points with the
// trapezoidal rule. Spacing need not be uniform.
func (g Grid) Trapezoid(f []float64) float64 {
	return integrate.Trapezoidal(g.PH, f)
}
