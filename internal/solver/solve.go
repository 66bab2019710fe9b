package solver

import (
	"math"

	"github.com/roach88/borate/internal/speciation"
)

// Root search parameters.
const (
	LowBound      = 1e-16
	MinHighBound  = 1e-8
	MaxExpansions = 40
	MaxIterations = 200
	XTol          = 1e-12
)

// Result is the outcome of one free-monomer solve.
type Result struct {
	// X is the free monomer concentration.
	X float64

	// Degraded is set when no root was bracketed after MaxExpansions
	// doublings (X is then min(high bound, target)) or when Brent ran out
	// of iterations (X is its last iterate).
	Degraded bool

	// Expansions counts how many times the upper bound was doubled.
	Expansions int

	// Iterations counts Brent iterations.
	Iterations int
}

// Solve finds the free monomer x such that speciation.TotalBoron(x, y)
// equals total.
//
// The bracket starts at [LowBound, max(total, MinHighBound)] and the upper
// end is doubled until the residual changes sign. When that never happens,
// which is the case for y <= 0 and for totals below the model value at
// LowBound, the result is the clamp min(high, total) with Degraded set.
// Solve never fails.
func Solve(total, y float64) Result {
	residual := func(x float64) float64 {
		return speciation.TotalBoron(x, y) - total
	}

	low := LowBound
	high := math.Max(total, MinHighBound)
	fLow := residual(low)
	fHigh := residual(high)

	expansions := 0
	for sameSign(fLow, fHigh) && expansions < MaxExpansions {
		high *= 2
		fHigh = residual(high)
		expansions++
	}
	if sameSign(fLow, fHigh) {
		return Result{X: math.Min(high, total), Degraded: true, Expansions: expansions}
	}

	x, iter, err := Brent(residual, low, high, XTol, DefaultRelTol, MaxIterations)
	return Result{X: x, Degraded: err != nil, Expansions: expansions, Iterations: iter}
}

// sameSign reports whether a and b are both non-zero with equal sign. NaN
// counts as unbracketed.
func sameSign(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return a != 0 && b != 0 && math.Signbit(a) == math.Signbit(b)
}

// FreeMonomer is Solve without the diagnostics.
func FreeMonomer(total, y float64) float64 {
	return Solve(total, y).X
}
