package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/borate/internal/batch"
)

func TestGolden_SmallRequest(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "small_request.yaml"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, scenario))
}

func TestGolden_WorkerCountDoesNotChangeSnapshot(t *testing.T) {
	req := batch.Request{Concentrations: "0.02,0.05,0.08", PHMin: 8.6, PHMax: 10.1, Points: 25}

	seq, err := batch.NewEvaluator(batch.Options{}).Run(context.Background(), req)
	require.NoError(t, err)
	par, err := batch.NewEvaluator(batch.Options{Workers: 3}).Run(context.Background(), req)
	require.NoError(t, err)

	a, err := Snapshot("small_request", seq)
	require.NoError(t, err)
	b, err := Snapshot("small_request", par)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// Same document the golden file holds.
	require.NoError(t, AssertGolden(t, "small_request", par))
}

func TestSnapshot_SamplesFirstMiddleLast(t *testing.T) {
	req := batch.Request{Concentrations: "0.08", PHMin: 8, PHMax: 10, Points: 5}
	res, err := batch.NewEvaluator(batch.Options{}).Run(context.Background(), req)
	require.NoError(t, err)

	data, err := Snapshot("tiny", res)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"ph":"8"`)
	assert.Contains(t, s, `"ph":"9"`)
	assert.Contains(t, s, `"ph":"10"`)
	assert.NotContains(t, s, `"ph":"8.5"`)
	assert.Contains(t, s, `"scenario":"tiny"`)
}
