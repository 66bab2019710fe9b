package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/borate/internal/batch"
)

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes evaluator logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// Run executes a scenario and evaluates its assertions.
//
// An input error from the request is part of the result, not a Run error;
// error_code assertions inspect it. Run returns an error only when
// evaluation fails for another reason (an internal error or cancellation).
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	ev := batch.NewEvaluator(batch.Options{Workers: scenario.Workers, Logger: cfg.logger})
	res, err := ev.Run(ctx, scenario.Request)

	result := NewResult()
	var inputErr *batch.InputError
	switch {
	case errors.As(err, &inputErr):
		result.InputErr = inputErr
	case err != nil:
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	default:
		result.Batch = res
	}

	for i, a := range scenario.Assertions {
		if aerr := evaluateAssertion(result, a); aerr != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, aerr))
		}
	}
	return result, nil
}
