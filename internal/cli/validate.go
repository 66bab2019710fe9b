package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/config"
	"github.com/roach88/borate/internal/logging"
)

// ValidationResult describes a job file that passed validation.
type ValidationResult struct {
	Valid          bool      `json:"valid"`
	Concentrations []float64 `json:"concentrations"`
	PHMin          float64   `json:"ph_min"`
	PHMax          float64   `json:"ph_max"`
	Points         int       `json:"points"`
	Fingerprint    string    `json:"fingerprint"`
}

// RenderText prints a short confirmation.
func (v *ValidationResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "✓ job is valid: %d concentration(s), pH %g..%g, %d points\n",
		len(v.Concentrations), v.PHMin, v.PHMax, v.Points)
	return nil
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <job.yaml>",
		Short: "Validate a job file without computing",
		Long: `Validate a job file against the job schema and check its request the
same way run does, without evaluating anything.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	out.VerboseLog("Loading job %s", path)
	job, err := config.LoadJob(path)
	if err != nil {
		return reportError(out, logging.Discard(), err)
	}

	req := job.Request()
	result, err := recoverInternal(func() (*ValidationResult, error) {
		concs, grid, err := batch.Validate(req)
		if err != nil {
			return nil, err
		}
		fingerprint, err := batch.Fingerprint(req)
		if err != nil {
			return nil, err
		}
		return &ValidationResult{
			Valid:          true,
			Concentrations: concs,
			PHMin:          grid.Min(),
			PHMax:          grid.Max(),
			Points:         grid.Len(),
			Fingerprint:    fingerprint,
		}, nil
	})
	if err != nil {
		return reportError(out, logging.Discard(), err)
	}

	return out.Success(result)
}
