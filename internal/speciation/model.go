package speciation

import "math"

// ModelVersion identifies the constant set below. It is part of every run
// fingerprint, so bump it whenever a coefficient or exponent changes.
const ModelVersion = "borate/v1"

// SpeciesCount is the number of complexed species tracked by the model.
const SpeciesCount = 5

// Term is one c·x^p / y^q contribution to total boron.
type Term struct {
	Name        string
	Coefficient float64
	XPower      float64
	YPower      float64
}

// Value evaluates the term at free monomer x and activity y.
func (t Term) Value(x, y float64) float64 {
	return t.Coefficient * math.Pow(x, t.XPower) / math.Pow(y, t.YPower)
}

// terms is listed in total-boron order (a..e).
var terms = [SpeciesCount]Term{
	{Name: "a", Coefficient: math.Pow(10, -9.2), XPower: 1, YPower: 1},
	{Name: "b", Coefficient: math.Pow(10, -7.29), XPower: 3, YPower: 1},
	{Name: "c", Coefficient: math.Pow(10, -6.77), XPower: 5, YPower: 1},
	{Name: "d", Coefficient: math.Pow(10, -14.5), XPower: 4, YPower: 2},
	{Name: "e", Coefficient: math.Pow(10, -16.3), XPower: 3, YPower: 2},
}

// Terms returns a copy of the term table in total-boron order (a..e).
func Terms() [SpeciesCount]Term {
	return terms
}

// Activity converts a pH value into hydrogen-ion activity.
func Activity(pH float64) float64 {
	return math.Pow(10, -pH)
}

// TotalBoron returns x plus the five borate terms at activity y.
//
// The expression is unbounded as y approaches zero, so any y <= 0 yields
// +Inf. Negative x is not clamped.
func TotalBoron(x, y float64) float64 {
	if y <= 0 {
		return math.Inf(1)
	}
	total := x
	for _, t := range terms {
		total += t.Value(x, y)
	}
	return total
}

// Fractions holds the species fractions k1..k5, their running sums, and the
// share of total boron left as free monomer. K does not include the free
// monomer, so Y[4] + Free is what sums to one at an exact root.
type Fractions struct {
	K    [SpeciesCount]float64
	Y    [SpeciesCount]float64
	Free float64
}

// Sum returns k1+...+k5.
func (f Fractions) Sum() float64 {
	var s float64
	for _, k := range f.K {
		s += k
	}
	return s
}

// SpeciesFractions splits total into the five species fractions at (x, y).
//
// total must be the target the root x was solved for; it is not recomputed
// from x, so a degraded root shows up as fractions that do not sum to one.
// Callers guarantee x >= 0, y > 0 and total != 0.
func SpeciesFractions(x, y, total float64) Fractions {
	var f Fractions
	for i := range f.K {
		// k1 takes term e, k5 takes term a.
		f.K[i] = terms[SpeciesCount-1-i].Value(x, y) / total
	}
	var running float64
	for i, k := range f.K {
		running += k
		f.Y[i] = running
	}
	f.Free = x / total
	return f
}
