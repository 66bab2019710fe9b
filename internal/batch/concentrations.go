package batch

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// rangeDecimals is the rounding applied to start:end:step samples so that
// 0.01:0.10:0.01 yields 0.03 rather than 0.030000000000000002.
const rangeDecimals = 12

// ParseConcentrations reads a concentration spec.
//
// Accepted forms:
//
//	0.08                 single value
//	0.02,0.05,0.08       comma-separated list (empty items ignored)
//	0.01:0.10:0.01       inclusive start:end:step range, step > 0
//
// A range holds round((end-start)/step)+1 samples, at most MaxSamples.
// Non-positive, non-finite
// and duplicate values are dropped and the result is sorted ascending. An
// empty result is an *InputError.
func ParseConcentrations(spec string) ([]float64, error) {
	spec = strings.TrimSpace(spec)

	var vals []float64
	var err error
	switch {
	case strings.Contains(spec, ":"):
		vals, err = parseRange(spec)
	case strings.Contains(spec, ","):
		for _, tok := range strings.Split(spec, ",") {
			if strings.TrimSpace(tok) == "" {
				continue
			}
			v, perr := parseToken(tok)
			if perr != nil {
				return nil, perr
			}
			vals = append(vals, v)
		}
	default:
		var v float64
		v, err = parseToken(spec)
		vals = []float64{v}
	}
	if err != nil {
		return nil, err
	}

	out := normalize(vals)
	if len(out) == 0 {
		return nil, &InputError{
			Code:    ErrCodeNoConcentrations,
			Field:   "concentrations",
			Message: fmt.Sprintf("no valid concentrations in %q", spec),
		}
	}
	return out, nil
}

func parseRange(spec string) ([]float64, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, &InputError{
			Code:    ErrCodeBadConcentration,
			Field:   "concentrations",
			Message: fmt.Sprintf("range %q must have the form start:end:step", spec),
		}
	}
	var bounds [3]float64
	for i, p := range parts {
		v, err := parseToken(p)
		if err != nil {
			return nil, err
		}
		bounds[i] = v
	}
	start, end, step := bounds[0], bounds[1], bounds[2]
	if !(step > 0) {
		return nil, &InputError{
			Code:    ErrCodeBadStep,
			Field:   "concentrations",
			Message: fmt.Sprintf("range step must be > 0 (got %g)", step),
		}
	}

	count := math.RoundToEven((end-start)/step) + 1
	if !(count <= MaxSamples) {
		return nil, newSamplesError("concentrations", count)
	}
	n := int(count)
	vals := make([]float64, 0, max(n, 0))
	for i := 0; i < n; i++ {
		vals = append(vals, roundDecimals(start+float64(i)*step, rangeDecimals))
	}
	return vals, nil
}

func parseToken(tok string) (float64, error) {
	tok = strings.TrimSpace(tok)
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &InputError{
			Code:    ErrCodeBadConcentration,
			Field:   "concentrations",
			Message: fmt.Sprintf("invalid concentration %q", tok),
			Err:     err,
		}
	}
	return v, nil
}

// roundDecimals rounds half-to-even at the given number of decimal places,
// working from the exact binary value rather than a scaled product.
func roundDecimals(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func normalize(vals []float64) []float64 {
	kept := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v > 0 && !math.IsInf(v, 0) {
			kept = append(kept, v)
		}
	}
	sort.Float64s(kept)

	out := kept[:0]
	for _, v := range kept {
		if len(out) > 0 && v == out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}
