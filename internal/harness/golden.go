package harness

import (
	"context"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/canon"
)

// Snapshot converts a batch result into a canonical JSON document: the
// integrals of every concentration and the first, middle and last row of
// every series. Numbers are printed with six significant digits so that
// last-ulp differences between platforms do not break comparisons.
func Snapshot(name string, res *batch.Result) ([]byte, error) {
	integrals := make([]any, len(res.Integrals))
	for i, row := range res.Integrals {
		m := map[string]any{"concentration": sig6(row.Concentration)}
		for j, v := range row.Integrals {
			m[fmt.Sprintf("k%d", j+1)] = sig6(v)
		}
		integrals[i] = m
	}

	var rows []any
	for _, s := range res.Series {
		n := len(s.Rows)
		for _, idx := range []int{0, (n - 1) / 2, n - 1} {
			row := s.Rows[idx]
			m := map[string]any{
				"concentration": sig6(s.Concentration),
				"ph":            sig6(row.PH),
				"x":             sig6(row.X),
			}
			for j, k := range row.K {
				m[fmt.Sprintf("k%d", j+1)] = sig6(k)
			}
			rows = append(rows, m)
		}
	}

	return canon.Marshal(map[string]any{
		"scenario":  name,
		"integrals": integrals,
		"rows":      rows,
	})
}

func sig6(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden. The scenario must be accepted and
// all of its assertions must hold.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}
	if result.Batch == nil {
		return fmt.Errorf("scenario %s was rejected: %v", scenario.Name, result.InputErr)
	}
	return AssertGolden(t, scenario.Name, result.Batch)
}

// AssertGolden compares the snapshot of res against a golden file.
func AssertGolden(t *testing.T, name string, res *batch.Result) error {
	t.Helper()

	data, err := Snapshot(name, res)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
