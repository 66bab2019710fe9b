package harness

import "github.com/roach88/borate/internal/batch"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool

	// Batch is the evaluation result; nil when the request was rejected.
	Batch *batch.Result

	// InputErr is the rejection, when the request was invalid.
	InputErr *batch.InputError

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
