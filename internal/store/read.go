package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/speciation"
)

const runColumns = `seq, id, fingerprint, request, degraded, model_version, engine_version`

// ListRuns returns every stored run summary ordered by seq ASC.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// FindRunByFingerprint returns the most recent run with the given
// fingerprint that was produced by the current model, or ErrRunNotFound.
func (s *Store) FindRunByFingerprint(ctx context.Context, fingerprint string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE fingerprint = ? AND model_version = ?
		ORDER BY seq DESC
		LIMIT 1
	`, fingerprint, speciation.ModelVersion)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrRunNotFound
	}
	return rec, err
}

// ReadRun returns the run with the given ID including its series and
// integrals, both in ascending concentration order.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	series, err := s.readSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	integrals, err := s.readIntegrals(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Run{RunRecord: rec, Series: series, Integrals: integrals}, nil
}

// Result rebuilds the batch result of a stored run. The grid is
// regenerated from the request, which reproduces the stored pH samples.
func (r *Run) Result() (*batch.Result, error) {
	concs, grid, err := batch.Validate(r.Request)
	if err != nil {
		return nil, fmt.Errorf("stored run %s: %w", r.ID, err)
	}
	res := &batch.Result{
		Request:        r.Request,
		Concentrations: concs,
		Grid:           grid,
		Series:         r.Series,
		Integrals:      r.Integrals,
		Degraded:       r.Degraded,
	}
	if r.Request.IncludePlot {
		res.Display = batch.NewDisplayCurve(concs[len(concs)-1], r.Request.PHMin, r.Request.PHMax)
	}
	return res, nil
}

func (s *Store) readSeries(ctx context.Context, runID string) ([]batch.Series, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT concentration, ph, x, k1, k2, k3, k4, k5, degraded
		FROM series_points
		WHERE run_id = ?
		ORDER BY concentration ASC, idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	series := []batch.Series{}
	for rows.Next() {
		var (
			c   float64
			row batch.Row
		)
		if err := rows.Scan(&c, &row.PH, &row.X,
			&row.K[0], &row.K[1], &row.K[2], &row.K[3], &row.K[4],
			&row.Degraded); err != nil {
			return nil, fmt.Errorf("scan series point: %w", err)
		}
		row.Y = cumulative(row.K)

		if n := len(series); n == 0 || series[n-1].Concentration != c {
			series = append(series, batch.Series{Concentration: c})
		}
		last := &series[len(series)-1]
		last.Rows = append(last.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return series, nil
}

func (s *Store) readIntegrals(ctx context.Context, runID string) ([]batch.IntegralRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT concentration, i1, i2, i3, i4, i5, ph_min, ph_max, points
		FROM integrals
		WHERE run_id = ?
		ORDER BY concentration ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query integrals: %w", err)
	}
	defer rows.Close()

	out := []batch.IntegralRow{}
	for rows.Next() {
		var r batch.IntegralRow
		if err := rows.Scan(&r.Concentration,
			&r.Integrals[0], &r.Integrals[1], &r.Integrals[2], &r.Integrals[3], &r.Integrals[4],
			&r.PHMin, &r.PHMax, &r.Points); err != nil {
			return nil, fmt.Errorf("scan integral: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate integrals: %w", err)
	}
	return out, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		rec     RunRecord
		reqJSON string
	)
	if err := sc.Scan(&rec.Seq, &rec.ID, &rec.Fingerprint, &reqJSON,
		&rec.Degraded, &rec.ModelVersion, &rec.EngineVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	req, err := unmarshalRequest(reqJSON)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Request = req
	return rec, nil
}

// cumulative matches speciation.SpeciesFractions' running sum.
func cumulative(k [speciation.SpeciesCount]float64) [speciation.SpeciesCount]float64 {
	var y [speciation.SpeciesCount]float64
	var running float64
	for i, v := range k {
		running += v
		y[i] = running
	}
	return y
}
