package store

import "github.com/roach88/borate/internal/batch"

// RunRecord is the summary row of a stored run.
type RunRecord struct {
	Seq           int64
	ID            string
	Fingerprint   string
	Request       batch.Request
	Degraded      int
	ModelVersion  string
	EngineVersion string
}

// Run is a stored run with its full output.
type Run struct {
	RunRecord
	Series    []batch.Series
	Integrals []batch.IntegralRow
}
