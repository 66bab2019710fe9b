package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/borate/internal/batch"
)

// FractionTolerance bounds floating-point drift in fraction sums.
const FractionTolerance = 1e-9

// ReferenceRequest is the default form of the original tool: 0.08 total
// boron sampled at 300 points from pH 8.6 to 10.1.
func ReferenceRequest() batch.Request {
	return batch.Request{
		Concentrations: "0.08",
		PHMin:          8.6,
		PHMax:          10.1,
		Points:         300,
	}
}

// SmallRequest is a cheap multi-concentration request for store and CLI
// tests.
func SmallRequest() batch.Request {
	return batch.Request{
		Concentrations: "0.02,0.05,0.08",
		PHMin:          8.6,
		PHMax:          10.1,
		Points:         25,
	}
}

// RequireRowInvariants checks one series row at concentration c: fractions
// are non-negative, cumulative sums are non-decreasing and end at k1+..+k5,
// and the species plus the free monomer share account for all of c.
func RequireRowInvariants(t *testing.T, c float64, row batch.Row) {
	t.Helper()

	require.Greater(t, row.X, 0.0, "pH=%g: x must be positive", row.PH)
	var sum float64
	for i, k := range row.K {
		require.GreaterOrEqual(t, k, 0.0, "pH=%g: k%d negative", row.PH, i+1)
		sum += k
		if i > 0 {
			require.GreaterOrEqual(t, row.Y[i], row.Y[i-1], "pH=%g: Y%d < Y%d", row.PH, i+1, i)
		}
	}
	require.InDelta(t, sum, row.Y[4], FractionTolerance, "pH=%g", row.PH)
	if !row.Degraded {
		require.InDelta(t, 1.0, row.Y[4]+row.X/c, FractionTolerance, "pH=%g", row.PH)
	}
}

// RequireSeriesInvariants applies RequireRowInvariants to every row.
func RequireSeriesInvariants(t *testing.T, s batch.Series) {
	t.Helper()
	for _, row := range s.Rows {
		RequireRowInvariants(t, s.Concentration, row)
	}
}
