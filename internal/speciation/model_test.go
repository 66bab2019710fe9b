package speciation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalBoron_FreeMonomerOnlyAtLowActivityTerms(t *testing.T) {
	// At pH 2 every borate term is negligible next to x.
	x := 0.05
	total := TotalBoron(x, Activity(2))
	assert.InEpsilon(t, x, total, 1e-6)
}

func TestTotalBoron_MatchesTermTable(t *testing.T) {
	x, y := 0.03, Activity(9.3)
	want := x +
		math.Pow(10, -9.2)*x/y +
		math.Pow(10, -7.29)*math.Pow(x, 3)/y +
		math.Pow(10, -6.77)*math.Pow(x, 5)/y +
		math.Pow(10, -14.5)*math.Pow(x, 4)/(y*y) +
		math.Pow(10, -16.3)*math.Pow(x, 3)/(y*y)
	assert.InEpsilon(t, want, TotalBoron(x, y), 1e-12)
}

func TestTotalBoron_UndefinedActivity(t *testing.T) {
	for _, y := range []float64{0, -1e-9, math.Inf(-1)} {
		assert.True(t, math.IsInf(TotalBoron(0.01, y), 1), "y=%g", y)
	}
}

func TestTotalBoron_StrictlyIncreasingInX(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		pH := 2 + 12*rng.Float64()
		y := Activity(pH)
		x1 := math.Pow(10, -8+7*rng.Float64())
		x2 := x1 * (1 + 1e-3 + rng.Float64())
		require.Less(t, TotalBoron(x1, y), TotalBoron(x2, y), "pH=%g x1=%g x2=%g", pH, x1, x2)
	}
}

func TestSpeciesFractions_ReverseTermMapping(t *testing.T) {
	x, y := 0.04, Activity(9.5)
	total := TotalBoron(x, y)
	f := SpeciesFractions(x, y, total)

	tt := Terms()
	assert.Equal(t, tt[4].Value(x, y)/total, f.K[0], "k1 is term e")
	assert.Equal(t, tt[3].Value(x, y)/total, f.K[1], "k2 is term d")
	assert.Equal(t, tt[2].Value(x, y)/total, f.K[2], "k3 is term c")
	assert.Equal(t, tt[1].Value(x, y)/total, f.K[3], "k4 is term b")
	assert.Equal(t, tt[0].Value(x, y)/total, f.K[4], "k5 is term a")
}

func TestSpeciesFractions_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		y := Activity(4 + 10*rng.Float64())
		x := math.Pow(10, -6+5.5*rng.Float64())
		total := TotalBoron(x, y)
		f := SpeciesFractions(x, y, total)

		for j, k := range f.K {
			require.GreaterOrEqual(t, k, 0.0, "k%d", j+1)
		}
		for j := 1; j < SpeciesCount; j++ {
			require.GreaterOrEqual(t, f.Y[j], f.Y[j-1], "Y%d < Y%d", j+1, j)
		}
		require.InDelta(t, f.Sum(), f.Y[4], 1e-15)
		require.InDelta(t, 1.0, f.Y[4]+f.Free, 1e-9)
	}
}

func TestSpeciesFractions_UsesGivenTotal(t *testing.T) {
	x, y := 0.02, Activity(10)
	exact := TotalBoron(x, y)

	f := SpeciesFractions(x, y, 2*exact)
	assert.InDelta(t, 0.5, f.Y[4]+f.Free, 1e-12)
}

func TestTerms_ReturnsCopy(t *testing.T) {
	tt := Terms()
	tt[0].Coefficient = 1
	assert.NotEqual(t, 1.0, Terms()[0].Coefficient)
}
