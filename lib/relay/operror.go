// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import "fmt"

// ErrorCategory classifies handler failures so that clients can make
// programmatic decisions (retry, fix input, escalate) without parsing
// message text. Categories travel in the response's category field.
type ErrorCategory string

const (
	// CategoryValidation indicates bad input: wrong argument count,
	// unparseable values, unknown enum choices. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced entity does not exist:
	// unknown body name, nothing selected where a selection is needed.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryConflict indicates the operation conflicts with current
	// document state: duplicate body name, empty undo history.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary condition: dispatch
	// queue full, host busy. Back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates a bug or unexpected fault, including
	// recovered handler panics. Report rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// OpError is a categorized handler error. Handlers return OpError
// values (via the constructors below) so the interpreter can attach
// a category to the error response; plain errors are classified as
// internal.
type OpError struct {
	Category ErrorCategory
	Err      error
}

// Error returns the underlying message. The category travels
// separately in the response, not in the text.
func (e *OpError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *OpError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *OpError {
	return &OpError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced entity does not exist.
func NotFound(format string, args ...any) *OpError {
	return &OpError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with document state.
func Conflict(format string, args ...any) *OpError {
	return &OpError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *OpError {
	return &OpError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure or bug.
func Internal(format string, args ...any) *OpError {
	return &OpError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
