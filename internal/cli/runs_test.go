package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedRuns stores two runs and returns the database path.
func seedRuns(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")
	_, err := executeRun(t, "run-a", "--conc", "0.08", "--points", "25", "--db", db)
	require.NoError(t, err)
	_, err = executeRun(t, "run-b", "--conc", "0.02,0.05", "--points", "30", "--db", db)
	require.NoError(t, err)
	return db
}

func TestRunsList(t *testing.T) {
	db := seedRuns(t)

	out, _, err := execute(t, "--format", "json", "runs", "list", "--db", db)
	require.NoError(t, err)

	resp := decode[RunList](t, out)
	require.Len(t, resp.Data.Runs, 2)
	assert.Equal(t, "run-a", resp.Data.Runs[0].ID)
	assert.Equal(t, "0.08", resp.Data.Runs[0].Concentrations)
	assert.Equal(t, 25, resp.Data.Runs[0].Points)
	assert.Equal(t, "run-b", resp.Data.Runs[1].ID)
	assert.Equal(t, "borate/v1", resp.Data.Runs[1].ModelVersion)

	out, _, err = execute(t, "runs", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "CONCENTRATIONS")
	assert.Contains(t, out, "run-b")
}

func TestRunsList_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := execute(t, "runs", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "no runs\n", out)
}

func TestRunsList_RequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "runs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRunsShow(t *testing.T) {
	db := seedRuns(t)

	out, _, err := execute(t, "--format", "json", "runs", "show", "--db", db, "run-b")
	require.NoError(t, err)

	resp := decode[RunSummary](t, out)
	assert.Equal(t, "run-b", resp.Data.RunID)
	require.Len(t, resp.Data.Integrals, 2)
	assert.Equal(t, 0.02, resp.Data.Integrals[0].Concentration)
	assert.Equal(t, 30, resp.Data.Integrals[0].Points)
}

func TestRunsShow_MatchesOriginalRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := executeRun(t, "run-1", "--conc", "0.02,0.08", "--points", "25", "--db", db)
	require.NoError(t, err)
	original := decode[RunSummary](t, out)

	out, _, err = execute(t, "--format", "json", "runs", "show", "--db", db, "run-1")
	require.NoError(t, err)
	shown := decode[RunSummary](t, out)

	assert.Equal(t, original.Data.Fingerprint, shown.Data.Fingerprint)
	assert.Equal(t, original.Data.Integrals, shown.Data.Integrals)
}

func TestRunsShow_NotFound(t *testing.T) {
	db := seedRuns(t)

	out, _, err := execute(t, "--format", "json", "runs", "show", "--db", db, "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestRunsExport(t *testing.T) {
	db := seedRuns(t)
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "run-a.xlsx")
	png := filepath.Join(dir, "run-a.png")

	out, _, err := execute(t, "--format", "json", "runs", "export", "--db", db, "--xlsx", xlsx, "--png", png, "run-a")
	require.NoError(t, err)

	resp := decode[RunSummary](t, out)
	assert.Equal(t, []string{xlsx, png}, resp.Data.Files)
	for _, path := range []string{xlsx, png} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRunsExport_RequiresOutput(t *testing.T) {
	db := seedRuns(t)

	_, _, err := execute(t, "runs", "export", "--db", db, "run-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx")
}
