package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/borate/internal/store"
)

// RunsOptions holds flags for the runs command group.
type RunsOptions struct {
	*RootOptions
	Database string
	XLSX     string
	PNG      string
}

// NewRunsCommand creates the runs command with its list, show and export
// subcommands.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored runs",
		Long: `Read runs stored with "borate run --db" back from the database.

Example:
  borate runs list --db runs.db
  borate runs show --db runs.db <run-id>
  borate runs export --db runs.db --xlsx out.xlsx <run-id>`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List stored runs, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(opts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "show <run-id>",
		Short:         "Print the integral table of a stored run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(opts, args[0], cmd, false)
		},
	})

	export := &cobra.Command{
		Use:           "export <run-id>",
		Short:         "Write a stored run to xlsx and/or PNG",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(opts, args[0], cmd, true)
		},
	}
	export.Flags().StringVar(&opts.XLSX, "xlsx", "", "write an xlsx workbook to this path")
	export.Flags().StringVar(&opts.PNG, "png", "", "write a PNG plot to this path")
	export.MarkFlagsOneRequired("xlsx", "png")
	cmd.AddCommand(export)

	return cmd
}

func openStore(opts *RunsOptions, out *OutputFormatter) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, storeError(out, "failed to open database", err)
	}
	return st, nil
}

func runRunsList(opts *RunsOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	st, err := openStore(opts, out)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListRuns(cmd.Context())
	if err != nil {
		return storeError(out, "failed to list runs", err)
	}
	return out.Success(newRunList(records))
}

func runRunsShow(opts *RunsOptions, id string, cmd *cobra.Command, export bool) error {
	out := newFormatter(opts.RootOptions, cmd)
	logger := newCommandLogger(opts.RootOptions, "warn", cmd)
	st, err := openStore(opts, out)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), id)
	if err != nil {
		return reportError(out, logger, err)
	}
	res, err := run.Result()
	if err != nil {
		return reportError(out, logger, err)
	}

	summary := newRunSummary(run.ID, run.Fingerprint, res)
	if export {
		files, failed, err := writeOutputs(res, opts.XLSX, opts.PNG)
		summary.Files = files
		if err != nil {
			return writeError(out, failed, err)
		}
	}
	return out.Success(summary)
}
