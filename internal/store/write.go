package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/speciation"
)

// WriteRun stores a batch result under rec.ID in a single transaction.
// rec.Request, rec.Degraded and rec.ModelVersion are taken from res and the
// current model; rec.Seq is assigned by the database.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same ID twice
// leaves the first run untouched and reports inserted=false.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord, res *batch.Result) (inserted bool, err error) {
	reqJSON, err := marshalRequest(res.Request)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, fingerprint, request, concentration_spec, ph_min, ph_max, points, degraded, model_version, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Fingerprint,
		reqJSON,
		res.Request.Concentrations,
		res.Request.PHMin,
		res.Request.PHMax,
		res.Request.Points,
		res.Degraded,
		speciation.ModelVersion,
		rec.EngineVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := writeSeries(ctx, tx, rec.ID, res.Series); err != nil {
		return false, err
	}
	if err := writeIntegrals(ctx, tx, rec.ID, res.Integrals); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}

func writeSeries(ctx context.Context, tx *sql.Tx, runID string, series []batch.Series) error {
	st, err := tx.PrepareContext(ctx, `
		INSERT INTO series_points
		(run_id, concentration, idx, ph, x, k1, k2, k3, k4, k5, degraded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write series: prepare: %w", err)
	}
	defer st.Close()

	for _, s := range series {
		for i, row := range s.Rows {
			_, err := st.ExecContext(ctx,
				runID, s.Concentration, i, row.PH, row.X,
				row.K[0], row.K[1], row.K[2], row.K[3], row.K[4],
				row.Degraded,
			)
			if err != nil {
				return fmt.Errorf("write series C=%g row %d: %w", s.Concentration, i, err)
			}
		}
	}
	return nil
}

func writeIntegrals(ctx context.Context, tx *sql.Tx, runID string, rows []batch.IntegralRow) error {
	st, err := tx.PrepareContext(ctx, `
		INSERT INTO integrals
		(run_id, concentration, i1, i2, i3, i4, i5, ph_min, ph_max, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write integrals: prepare: %w", err)
	}
	defer st.Close()

	for _, r := range rows {
		_, err := st.ExecContext(ctx,
			runID, r.Concentration,
			r.Integrals[0], r.Integrals[1], r.Integrals[2], r.Integrals[3], r.Integrals[4],
			r.PHMin, r.PHMax, r.Points,
		)
		if err != nil {
			return fmt.Errorf("write integrals C=%g: %w", r.Concentration, err)
		}
	}
	return nil
}
