package harness

import (
	"fmt"
	"math"
	"strings"
)

// massBalanceTolerance bounds drift in Y5 + x/C for converged rows.
const massBalanceTolerance = 1e-9

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s", e.Actual)
	return buf.String()
}

func evaluateAssertion(r *Result, a Assertion) error {
	if a.Type == AssertErrorCode {
		return assertErrorCode(r, a)
	}
	if r.Batch == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: "a successful evaluation",
			Actual:   fmt.Sprintf("rejected: %v", r.InputErr),
		}
	}

	switch a.Type {
	case AssertSeriesCount:
		if got := len(r.Batch.Series); got != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d series", a.Count),
				Actual:   fmt.Sprintf("%d series", got),
			}
		}
	case AssertDegradedCount:
		if r.Batch.Degraded != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d degraded rows", a.Count),
				Actual:   fmt.Sprintf("%d degraded rows", r.Batch.Degraded),
			}
		}
	case AssertMassBalance:
		return assertMassBalance(r, a)
	case AssertIntegralRange:
		return assertIntegralRange(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertErrorCode(r *Result, a Assertion) error {
	if r.InputErr == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("input error %s", a.Code),
			Actual:   "request accepted",
		}
	}
	if string(r.InputErr.Code) != a.Code {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("input error %s", a.Code),
			Actual:   r.InputErr.Error(),
		}
	}
	return nil
}

func assertMassBalance(r *Result, a Assertion) error {
	for _, s := range r.Batch.Series {
		for _, row := range s.Rows {
			if row.Degraded {
				continue
			}
			sum := row.Y[len(row.Y)-1] + row.X/s.Concentration
			if math.Abs(sum-1) > massBalanceTolerance {
				return &AssertionError{
					Type:     a.Type,
					Expected: "Y5 + x/C = 1",
					Actual:   fmt.Sprintf("%.12g at C=%g pH=%g", sum, s.Concentration, row.PH),
				}
			}
		}
	}
	return nil
}

func assertIntegralRange(r *Result, a Assertion) error {
	for _, row := range r.Batch.Integrals {
		if row.Concentration != a.Concentration {
			continue
		}
		v := row.Integrals[a.Species-1]
		if v < a.Min || v > a.Max {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("∫k%d dpH in [%g, %g] at C=%g", a.Species, a.Min, a.Max, a.Concentration),
				Actual:   fmt.Sprintf("%g", v),
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("a series at C=%g", a.Concentration),
		Actual:   fmt.Sprintf("concentrations %v", r.Batch.Concentrations),
	}
}
