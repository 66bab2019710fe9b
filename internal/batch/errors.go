package batch

import (
	"errors"
	"fmt"
)

// InputError reports a request that cannot be evaluated. It is raised before
// any computation starts.
type InputError struct {
	// Code identifies the error category.
	Code InputErrorCode

	// Field names the offending request field.
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying parse error, if any.
	Err error
}

// InputErrorCode categorizes input errors.
type InputErrorCode string

const (
	// ErrCodeBadConcentration indicates a concentration token that is not a number.
	ErrCodeBadConcentration InputErrorCode = "E101"

	// ErrCodeBadStep indicates a start:end:step range with step <= 0.
	ErrCodeBadStep InputErrorCode = "E102"

	// ErrCodeNoConcentrations indicates nothing positive survived filtering.
	ErrCodeNoConcentrations InputErrorCode = "E103"

	// ErrCodeBadRange indicates pH min >= pH max.
	ErrCodeBadRange InputErrorCode = "E104"

	// ErrCodeTooFewPoints indicates fewer than MinPoints pH samples.
	ErrCodeTooFewPoints InputErrorCode = "E105"

	// ErrCodeNonFinite indicates a NaN or infinite pH bound.
	ErrCodeNonFinite InputErrorCode = "E106"

	// ErrCodeTooManySamples indicates a range or pH grid above MaxSamples.
	ErrCodeTooManySamples InputErrorCode = "E107"
)

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError returns true if err is or wraps an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// InternalError wraps a failure that escaped evaluation, typically a
// recovered panic. The batch is aborted; the process is not.
type InternalError struct {
	Err   error
	Stack []byte
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error during evaluation: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsInternalError returns true if err is or wraps an *InternalError.
func IsInternalError(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

func newRangeError(min, max float64) *InputError {
	return &InputError{
		Code:    ErrCodeBadRange,
		Field:   "ph_min",
		Message: fmt.Sprintf("pH min must be < max (got min=%g, max=%g)", min, max),
	}
}

func newPointsError(n int) *InputError {
	return &InputError{
		Code:    ErrCodeTooFewPoints,
		Field:   "points",
		Message: fmt.Sprintf("too few pH sample points (got %d, need at least %d; 50 or more recommended)", n, MinPoints),
	}
}

func newSamplesError(field string, n float64) *InputError {
	return &InputError{
		Code:    ErrCodeTooManySamples,
		Field:   field,
		Message: fmt.Sprintf("too many samples (got %.0f, limit %d)", n, MaxSamples),
	}
}
