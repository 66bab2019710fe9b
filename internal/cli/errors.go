package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime/debug"
	"text/tabwriter"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/config"
	"github.com/roach88/borate/internal/store"
)

// placeholderResult is printed in place of a result table when an
// evaluation aborts unexpectedly.
type placeholderResult struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// reportError writes err through the formatter and returns the matching
// ExitError. Input errors keep their batch code (E101..E107).
func reportError(out *OutputFormatter, logger *slog.Logger, err error) error {
	var inputErr *batch.InputError
	if errors.As(err, &inputErr) {
		_ = out.Error(string(inputErr.Code), inputErr.Message, map[string]string{"field": inputErr.Field})
		return WrapExitError(ExitCommandError, "invalid request", err)
	}

	var internalErr *batch.InternalError
	if errors.As(err, &internalErr) {
		logger.Warn("evaluation aborted", "error", internalErr.Err, "stack", string(internalErr.Stack))
		_ = out.Error(ErrCodeInternal, "evaluation failed", placeholderResult{Message: "error", Detail: internalErr.Err.Error()})
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		_ = out.Error(ErrCodeGeneric, "run cancelled", nil)
		return WrapExitError(ExitFailure, "run cancelled", err)
	case errors.Is(err, config.ErrInvalidJob):
		_ = out.Error(ErrCodeInvalidJob, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid job", err)
	case errors.Is(err, fs.ErrNotExist):
		_ = out.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "file not found", err)
	case errors.Is(err, store.ErrRunNotFound):
		_ = out.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}

	_ = out.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitFailure, "command failed", err)
}

// recoverInternal runs fn and converts a panic into a *batch.InternalError,
// so request checks outside Evaluator.Run end in an E500 report instead of
// a crash.
func recoverInternal[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			var zero T
			v, err = zero, &batch.InternalError{Err: perr, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// storeError reports a database failure.
func storeError(out *OutputFormatter, message string, err error) error {
	_ = out.Error(ErrCodeStore, message+": "+err.Error(), nil)
	return WrapExitError(ExitCommandError, message, err)
}

// writeError reports an export file that could not be written.
func writeError(out *OutputFormatter, path string, err error) error {
	_ = out.Error(ErrCodeWriteFailed, "failed to write "+path+": "+err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to write output", err)
}

// RenderText prints the placeholder as a one-row table.
func (p placeholderResult) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "message\tdetail")
	fmt.Fprintf(tw, "%s\t%s\n", p.Message, p.Detail)
	return tw.Flush()
}
