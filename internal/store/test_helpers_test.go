package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/borate/internal/batch"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// evaluate runs req and fails the test on error.
func evaluate(t *testing.T, req batch.Request) *batch.Result {
	t.Helper()
	res, err := batch.NewEvaluator(batch.Options{}).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return res
}

// testRecord builds run metadata for req.
func testRecord(t *testing.T, id string, req batch.Request) RunRecord {
	t.Helper()
	fp, err := batch.Fingerprint(req)
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}
	return RunRecord{ID: id, Fingerprint: fp, EngineVersion: "test"}
}
