package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's error taxonomy. Handlers translate these to
// transport-level responses; the engine itself never formats user-facing text.
var (
	// ErrAuthRequired means no authenticated identity was supplied for an
	// operation that needs one. Never retried automatically.
	ErrAuthRequired = errors.New("authentication required")

	// ErrStoreUnavailable means the record store failed after its single
	// bounded retry. The operation may or may not have taken effect server-side.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a rejected input, naming the offending field.
// Validation failures are surfaced synchronously and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
