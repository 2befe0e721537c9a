package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a cost item failed validation.
type FailureKind string

const (
	// FailureUnknownCalculator means the item names no registered calculator.
	FailureUnknownCalculator FailureKind = "unknown_calculator"
	// FailureInvalidPayload means the payload did not match the calculator's
	// request shape.
	FailureInvalidPayload FailureKind = "invalid_payload"
)

// ItemFailure is one structured validation failure.
type ItemFailure struct {
	PathTitle  string      `json:"path_title"`
	ItemIndex  int         `json:"item_index"`
	Calculator string      `json:"calculator"`
	Kind       FailureKind `json:"kind"`
	Details    []string    `json:"details,omitempty"`
}

// ValidationError reports every invalid item of a request in one batch.
// Nothing is executed when it is returned.
type ValidationError struct {
	Failures []ItemFailure
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "aggregate: %d invalid cost item(s)", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s[%d] %s: %s", f.PathTitle, f.ItemIndex, f.Calculator, f.Kind)
	}
	return b.String()
}

// ExecutionError reports a calculator failing during the execution phase. It
// aborts the whole aggregation; there is no per-item retry or skip.
type ExecutionError struct {
	Calculator string
	Err        error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("aggregate: calculator %s failed: %v", e.Calculator, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// AsValidationError unwraps err into a ValidationError, if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
