package batch

import "github.com/roach88/borate/internal/speciation"

// Request is one batch evaluation as supplied by a caller.
type Request struct {
	// Concentrations is the concentration spec (see ParseConcentrations).
	Concentrations string `json:"concentrations" yaml:"concentrations"`

	// PHMin and PHMax bound the sampled pH range; PHMin < PHMax.
	PHMin float64 `json:"ph_min" yaml:"ph_min"`
	PHMax float64 `json:"ph_max" yaml:"ph_max"`

	// Points is the number of pH samples, at least MinPoints.
	Points int `json:"points" yaml:"points"`

	// IncludePlot asks for the wide-range display curve of the largest
	// concentration. It does not affect the series or integrals.
	IncludePlot bool `json:"plot" yaml:"plot"`
}

// Row is one pH sample of a concentration series.
type Row struct {
	PH       float64
	X        float64
	K        [speciation.SpeciesCount]float64
	Y        [speciation.SpeciesCount]float64
	Degraded bool
}

// Series is the full pH sweep for one concentration.
type Series struct {
	Concentration float64
	Rows          []Row
}

// Column returns k_i (i in 1..5) for every row.
func (s Series) Column(i int) []float64 {
	col := make([]float64, len(s.Rows))
	for j, r := range s.Rows {
		col[j] = r.K[i-1]
	}
	return col
}

// DegradedCount returns how many rows used a degraded root.
func (s Series) DegradedCount() int {
	n := 0
	for _, r := range s.Rows {
		if r.Degraded {
			n++
		}
	}
	return n
}

// IntegralRow summarizes one concentration: ∫k_i dpH over the sampled range.
type IntegralRow struct {
	Concentration float64
	Integrals     [speciation.SpeciesCount]float64
	PHMin         float64
	PHMax         float64
	Points        int
}

// Result is the output of a batch evaluation. Series and Integrals are in
// ascending concentration order.
type Result struct {
	Request        Request
	Concentrations []float64
	Grid           Grid
	Series         []Series
	Integrals      []IntegralRow

	// Display is set when Request.IncludePlot is true.
	Display *DisplayCurve

	// Degraded counts solver results that fell back to a clamped or
	// unconverged root across all series.
	Degraded int
}

// SeriesFor returns the series of concentration c.
func (r *Result) SeriesFor(c float64) (Series, bool) {
	for _, s := range r.Series {
		if s.Concentration == c {
			return s, true
		}
	}
	return Series{}, false
}
