package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/logging"
)

func TestRun_TextTable(t *testing.T) {
	out, _, err := execute(t, "run", "--points", "25")
	require.NoError(t, err)

	assert.Contains(t, out, "Concentration")
	assert.Contains(t, out, "∫k1 dpH")
	assert.Contains(t, out, "pH_min")
	assert.Contains(t, out, "0.08")
	assert.NotContains(t, out, "run:")
}

func TestRun_JSONSortsConcentrations(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "run", "--conc", "0.08,0.02,0.05", "--points", "25")
	require.NoError(t, err)

	resp := decode[RunSummary](t, out)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Integrals, 3)
	assert.Equal(t, 0.02, resp.Data.Integrals[0].Concentration)
	assert.Equal(t, 0.05, resp.Data.Integrals[1].Concentration)
	assert.Equal(t, 0.08, resp.Data.Integrals[2].Concentration)
	assert.Len(t, resp.Data.Fingerprint, 64)
	assert.Empty(t, resp.Data.RunID)
	assert.Zero(t, resp.Data.Degraded)

	for _, row := range resp.Data.Integrals {
		assert.Equal(t, 8.6, row.PHMin)
		assert.Equal(t, 10.1, row.PHMax)
		assert.Equal(t, 25, row.Points)
	}
}

func TestRun_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"bad concentration", []string{"--conc", "abc"}, "E101"},
		{"bad step", []string{"--conc", "0.01:0.1:0"}, "E102"},
		{"no positive concentrations", []string{"--conc", "0,-1"}, "E103"},
		{"inverted range", []string{"--ph-min", "10", "--ph-max", "9"}, "E104"},
		{"oversized range", []string{"--conc", "1:1e15:1"}, "E107"},
		{"oversized grid", []string{"--points", "1152921504606846976"}, "E107"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "run", "--points", "25"}, tt.args...)
			out, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.True(t, batch.IsInputError(err))

			resp := decode[any](t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestRun_SchemaRejectsFewPoints(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "run", "--points", "3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidJob, resp.Error.Code)
}

func TestRun_JobFileWithFlagOverride(t *testing.T) {
	job := writeJob(t, `
concentrations: "0.02"
ph_min: 8.0
ph_max: 10.0
points: 40
`)
	out, _, err := execute(t, "--format", "json", "run", "--job", job, "--points", "20")
	require.NoError(t, err)

	resp := decode[RunSummary](t, out)
	require.Len(t, resp.Data.Integrals, 1)
	row := resp.Data.Integrals[0]
	assert.Equal(t, 0.02, row.Concentration)
	assert.Equal(t, 8.0, row.PHMin)
	assert.Equal(t, 10.0, row.PHMax)
	assert.Equal(t, 20, row.Points)
}

func TestRun_InvalidJobFile(t *testing.T) {
	job := writeJob(t, "concentrations: \"0.08\"\ncolour: blue\n")
	out, _, err := execute(t, "--format", "json", "run", "--job", job)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidJob, resp.Error.Code)
}

func TestRun_MissingJobFile(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "run", "--job", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestRun_StoresAndReuses(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	args := []string{"--conc", "0.02,0.08", "--points", "25", "--db", db}

	out, err := executeRun(t, "run-1", args...)
	require.NoError(t, err)
	first := decode[RunSummary](t, out)
	assert.Equal(t, "run-1", first.Data.RunID)
	assert.False(t, first.Data.Reused)

	out, err = executeRun(t, "run-2", append(args, "--reuse")...)
	require.NoError(t, err)
	second := decode[RunSummary](t, out)
	assert.Equal(t, "run-1", second.Data.RunID)
	assert.True(t, second.Data.Reused)
	assert.Equal(t, first.Data.Fingerprint, second.Data.Fingerprint)
	assert.Equal(t, first.Data.Integrals, second.Data.Integrals)
}

func TestRun_ReuseMissStoresNewRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := executeRun(t, "run-1", "--points", "25", "--db", db, "--reuse")
	require.NoError(t, err)
	resp := decode[RunSummary](t, out)
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.False(t, resp.Data.Reused)
}

func TestRun_ReuseRequiresDatabase(t *testing.T) {
	out, err := executeRun(t, "run-1", "--points", "25", "--reuse")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "--reuse requires --db")
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "boron_forms.xlsx")
	png := filepath.Join(dir, "boron_forms.png")

	out, _, err := execute(t, "--format", "json", "run", "--conc", "0.02,0.08", "--points", "25", "--xlsx", xlsx, "--png", png)
	require.NoError(t, err)

	resp := decode[RunSummary](t, out)
	assert.Equal(t, []string{xlsx, png}, resp.Data.Files)

	data, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")

	data, err = os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRun_UnwritableOutput(t *testing.T) {
	xlsx := filepath.Join(t.TempDir(), "missing", "out.xlsx")
	out, _, err := execute(t, "--format", "json", "run", "--points", "25", "--xlsx", xlsx)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeWriteFailed, resp.Error.Code)
}

func TestRun_VerboseLogsProgress(t *testing.T) {
	_, stderr, err := execute(t, "-v", "run", "--conc", "0.02,0.08", "--points", "25")
	require.NoError(t, err)

	assert.Contains(t, stderr, "computing concentration")
	assert.Contains(t, stderr, "total=2")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, _, err := executeContext(t, ctx, "--format", "json", "run", "--points", "25")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, errors.Is(err, context.Canceled))

	resp := decode[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeGeneric, resp.Error.Code)
}

func TestReportError_InternalErrorPrintsPlaceholder(t *testing.T) {
	internal := &batch.InternalError{Err: errors.New("boom")}

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := reportError(&OutputFormatter{Format: "json", Writer: buf}, logging.Discard(), internal)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		resp := decode[any](t, buf.String())
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, map[string]any{"message": "error", "detail": "boom"}, resp.Error.Details)
	})

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logs := &bytes.Buffer{}
		err := reportError(&OutputFormatter{Format: "text", Writer: buf}, logging.NewLogger("info", "text", logs), internal)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		assert.Contains(t, buf.String(), "Error [E500]")
		assert.Contains(t, buf.String(), "message  detail")
		assert.Contains(t, buf.String(), "error    boom")
		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "evaluation aborted")
	})
}

func TestRecoverInternal(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		v, err := recoverInternal(func() (string, error) {
			panic("makeslice: cap out of range")
		})
		assert.Empty(t, v)

		var internal *batch.InternalError
		require.ErrorAs(t, err, &internal)
		assert.EqualError(t, internal.Err, "makeslice: cap out of range")
		assert.NotEmpty(t, internal.Stack)
	})

	t.Run("panic with error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := recoverInternal(func() (int, error) {
			panic(boom)
		})
		assert.True(t, batch.IsInternalError(err))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("passthrough", func(t *testing.T) {
		v, err := recoverInternal(func() (string, error) {
			return "fp", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fp", v)
	})
}

func TestRunSummary_RenderText(t *testing.T) {
	s := &RunSummary{
		RunID:    "run-1",
		Reused:   true,
		Degraded: 3,
		Integrals: []IntegralSummary{
			{Concentration: 0.08, Integrals: [5]float64{0.1, 0.2, 0.3, 0.4, 0.5}, PHMin: 8.6, PHMax: 10.1, Points: 300},
		},
		Files: []string{"out.xlsx"},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, s.RenderText(buf))
	out := buf.String()
	assert.Contains(t, out, "0.100000")
	assert.Contains(t, out, "run: run-1 (reused)")
	assert.Contains(t, out, "warning: 3 degraded free-monomer solutions")
	assert.Contains(t, out, "wrote out.xlsx")
}
