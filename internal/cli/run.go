package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/config"
	"github.com/roach88/borate/internal/logging"
	"github.com/roach88/borate/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	JobPath        string
	Concentrations string
	PHMin          float64
	PHMax          float64
	Points         int
	Plot           bool
	Workers        int
	Database       string
	XLSX           string
	PNG            string
	Reuse          bool
	LogLevel       string

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate boron speciation over a pH range",
		Long: `Evaluate boron speciation for one or more total concentrations over a
sampled pH range and print the integral of each species fraction.

Concentrations are a comma list ("0.02,0.05,0.08") or a range
("0.01:0.10:0.01"). Flags override values from --job.

Example:
  borate run --conc 0.08 --ph-min 8.6 --ph-max 10.1 --points 300
  borate run --job job.yaml --xlsx boron_forms.xlsx --png boron_forms.png
  borate run --conc 0.02,0.08 --db runs.db --reuse`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.JobPath, "job", "", "path to a YAML job file")
	f.StringVar(&opts.Concentrations, "conc", config.DefaultConcentrations, "concentration spec")
	f.Float64Var(&opts.PHMin, "ph-min", config.DefaultPHMin, "lower pH bound")
	f.Float64Var(&opts.PHMax, "ph-max", config.DefaultPHMax, "upper pH bound")
	f.IntVar(&opts.Points, "points", config.DefaultPoints, "number of pH samples")
	f.BoolVar(&opts.Plot, "plot", false, "compute the display curve of the largest concentration")
	f.IntVar(&opts.Workers, "workers", 0, "concentrations evaluated concurrently (0 = sequential)")
	f.StringVar(&opts.Database, "db", "", "path to SQLite database for storing the run")
	f.StringVar(&opts.XLSX, "xlsx", "", "write an xlsx workbook to this path")
	f.StringVar(&opts.PNG, "png", "", "write a PNG plot to this path")
	f.BoolVar(&opts.Reuse, "reuse", false, "return a stored run with the same request instead of recomputing (requires --db)")
	f.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (warn|info|debug|trace)")

	return cmd
}

func runBatch(opts *RunOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	job, err := resolveJob(opts, cmd)
	if err != nil {
		return reportError(out, logging.Discard(), err)
	}

	logger := newCommandLogger(opts.RootOptions, job.LogLevel, cmd)
	req := job.Request()

	// Fingerprint validates the request, so input errors surface here.
	fingerprint, err := recoverInternal(func() (string, error) {
		return batch.Fingerprint(req)
	})
	if err != nil {
		return reportError(out, logger, err)
	}

	if opts.Reuse && job.Output.DB == "" {
		_ = out.Error(ErrCodeGeneric, "--reuse requires --db", nil)
		return NewExitError(ExitCommandError, "--reuse requires --db")
	}

	var st *store.Store
	if job.Output.DB != "" {
		logger.Debug("opening database", "path", job.Output.DB)
		st, err = store.Open(job.Output.DB)
		if err != nil {
			return storeError(out, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	// Use command's context if available (for testing)
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		res    *batch.Result
		runID  string
		reused bool
	)
	if opts.Reuse {
		res, runID, err = findStoredRun(ctx, st, fingerprint)
		switch {
		case err == nil:
			reused = true
			logger.Info("reusing stored run", "run_id", runID, "fingerprint", fingerprint)
		case errors.Is(err, store.ErrRunNotFound):
			logger.Debug("no stored run matches request", "fingerprint", fingerprint)
		default:
			return storeError(out, "failed to read stored run", err)
		}
	}

	if !reused {
		eval := batch.NewEvaluator(batch.Options{
			Workers:  job.Workers,
			Observer: progressObserver(opts.RootOptions, logger),
			Logger:   logger,
		})
		res, err = eval.Run(ctx, req)
		if err != nil {
			return reportError(out, logger, err)
		}

		if st != nil {
			runID = opts.idGenerator().Generate()
			inserted, err := st.WriteRun(ctx, store.RunRecord{
				ID:            runID,
				Fingerprint:   fingerprint,
				EngineVersion: Version,
			}, res)
			if err != nil {
				return storeError(out, "failed to store run", err)
			}
			logger.Info("run stored", "run_id", runID, "inserted", inserted)
		}
	}

	if req.IncludePlot {
		ensureDisplay(res)
	}

	summary := newRunSummary(runID, fingerprint, res)
	summary.Reused = reused
	files, failed, err := writeOutputs(res, job.Output.XLSX, job.Output.PNG)
	summary.Files = files
	if err != nil {
		return writeError(out, failed, err)
	}

	return out.Success(summary)
}

// resolveJob loads --job (or the defaults) and applies every flag the user
// set explicitly on top of it.
func resolveJob(opts *RunOptions, cmd *cobra.Command) (*config.Job, error) {
	job := config.Default()
	if opts.JobPath != "" {
		loaded, err := config.LoadJob(opts.JobPath)
		if err != nil {
			return nil, err
		}
		job = *loaded
	}

	f := cmd.Flags()
	if f.Changed("conc") {
		job.Concentrations = opts.Concentrations
	}
	if f.Changed("ph-min") {
		job.PHMin = opts.PHMin
	}
	if f.Changed("ph-max") {
		job.PHMax = opts.PHMax
	}
	if f.Changed("points") {
		job.Points = opts.Points
	}
	if f.Changed("plot") {
		job.Plot = opts.Plot
	}
	if f.Changed("workers") {
		job.Workers = opts.Workers
	}
	if f.Changed("db") {
		job.Output.DB = opts.Database
	}
	if f.Changed("xlsx") {
		job.Output.XLSX = opts.XLSX
	}
	if f.Changed("png") {
		job.Output.PNG = opts.PNG
	}
	if f.Changed("log-level") {
		job.LogLevel = opts.LogLevel
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

func (o *RunOptions) idGenerator() RunIDGenerator {
	if o.IDGenerator != nil {
		return o.IDGenerator
	}
	return UUIDv7Generator{}
}

// newCommandLogger builds the per-invocation logger on stderr. --verbose
// raises the level to at least debug.
func newCommandLogger(opts *RootOptions, level string, cmd *cobra.Command) *slog.Logger {
	if opts.Verbose && logging.ParseLevel(level) > slog.LevelDebug {
		level = "debug"
	}
	return logging.NewLogger(level, opts.Format, cmd.ErrOrStderr())
}

// progressObserver logs each concentration as it starts. It is only
// attached in verbose mode.
func progressObserver(opts *RootOptions, logger *slog.Logger) batch.Observer {
	if !opts.Verbose {
		return nil
	}
	return batch.ObserverFunc(func(done, total int, c float64) {
		logger.Info("computing concentration",
			"concentration", c,
			"done", done,
			"total", total,
			"fraction", fmt.Sprintf("%.2f", float64(done)/float64(total)))
	})
}

// findStoredRun loads the newest stored run with the given fingerprint.
func findStoredRun(ctx context.Context, st *store.Store, fingerprint string) (*batch.Result, string, error) {
	rec, err := st.FindRunByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, "", err
	}
	run, err := st.ReadRun(ctx, rec.ID)
	if err != nil {
		return nil, "", err
	}
	res, err := run.Result()
	if err != nil {
		return nil, "", err
	}
	return res, rec.ID, nil
}
