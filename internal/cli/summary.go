package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/export"
	"github.com/roach88/borate/internal/store"
)

// RunSummary is the command output of run, runs show and runs export.
type RunSummary struct {
	RunID       string            `json:"run_id,omitempty"`
	Fingerprint string            `json:"fingerprint"`
	Reused      bool              `json:"reused,omitempty"`
	Degraded    int               `json:"degraded"`
	Integrals   []IntegralSummary `json:"integrals"`
	Files       []string          `json:"files,omitempty"`
}

// IntegralSummary is one row of the integral table.
type IntegralSummary struct {
	Concentration float64    `json:"concentration"`
	Integrals     [5]float64 `json:"integrals"`
	PHMin         float64    `json:"ph_min"`
	PHMax         float64    `json:"ph_max"`
	Points        int        `json:"points"`
}

func newRunSummary(runID, fingerprint string, res *batch.Result) *RunSummary {
	s := &RunSummary{
		RunID:       runID,
		Fingerprint: fingerprint,
		Degraded:    res.Degraded,
		Integrals:   make([]IntegralSummary, len(res.Integrals)),
	}
	for i, row := range res.Integrals {
		s.Integrals[i] = IntegralSummary{
			Concentration: row.Concentration,
			Integrals:     row.Integrals,
			PHMin:         row.PHMin,
			PHMax:         row.PHMax,
			Points:        row.Points,
		}
	}
	return s
}

// RenderText prints the integral table followed by run metadata.
func (s *RunSummary) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(export.IntegralsHeader, "\t"))
	for _, row := range s.Integrals {
		fmt.Fprintf(tw, "%g", row.Concentration)
		for _, v := range row.Integrals {
			fmt.Fprintf(tw, "\t%.6f", v)
		}
		fmt.Fprintf(tw, "\t%g\t%g\t%d\n", row.PHMin, row.PHMax, row.Points)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.RunID != "" {
		suffix := ""
		if s.Reused {
			suffix = " (reused)"
		}
		fmt.Fprintf(w, "\nrun: %s%s\n", s.RunID, suffix)
	}
	if s.Degraded > 0 {
		fmt.Fprintf(w, "warning: %d degraded free-monomer solutions\n", s.Degraded)
	}
	for _, f := range s.Files {
		fmt.Fprintf(w, "wrote %s\n", f)
	}
	return nil
}

// RunList is the output of runs list.
type RunList struct {
	Runs []RunListEntry `json:"runs"`
}

// RunListEntry describes one stored run.
type RunListEntry struct {
	ID             string  `json:"id"`
	Concentrations string  `json:"concentrations"`
	PHMin          float64 `json:"ph_min"`
	PHMax          float64 `json:"ph_max"`
	Points         int     `json:"points"`
	Degraded       int     `json:"degraded"`
	ModelVersion   string  `json:"model_version"`
}

func newRunList(records []store.RunRecord) *RunList {
	l := &RunList{Runs: make([]RunListEntry, len(records))}
	for i, rec := range records {
		l.Runs[i] = RunListEntry{
			ID:             rec.ID,
			Concentrations: rec.Request.Concentrations,
			PHMin:          rec.Request.PHMin,
			PHMax:          rec.Request.PHMax,
			Points:         rec.Request.Points,
			Degraded:       rec.Degraded,
			ModelVersion:   rec.ModelVersion,
		}
	}
	return l
}

// RenderText prints one line per run.
func (l *RunList) RenderText(w io.Writer) error {
	if len(l.Runs) == 0 {
		fmt.Fprintln(w, "no runs")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCONCENTRATIONS\tPH_MIN\tPH_MAX\tPOINTS\tDEGRADED\tMODEL")
	for _, r := range l.Runs {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%d\t%d\t%s\n",
			r.ID, r.Concentrations, r.PHMin, r.PHMax, r.Points, r.Degraded, r.ModelVersion)
	}
	return tw.Flush()
}
