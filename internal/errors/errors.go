// Package errors defines chronokv's structured error taxonomy: invalid
// arguments, not-found sentinels, and non-fatal durability degradation, as
// described in spec.md §7.
package errors

import "fmt"

// ErrorCode identifies the class of a StoreError.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = 0

	// Client errors — malformed input at the API boundary, no state change.
	ErrCodeInvalidArgument ErrorCode = 1000
	ErrCodeNotFound        ErrorCode = 1001

	// Server errors — the store degrades but never terminates the process.
	ErrCodeInternal            ErrorCode = 2000
	ErrCodeDurabilityDegraded  ErrorCode = 2001
)

// StoreError is a structured error carrying a code, a message, optional
// details, and an optional wrapped cause.
type StoreError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value detail to the error and returns it for
// chaining.
func (e *StoreError) WithDetail(key string, value any) *StoreError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New constructs a StoreError.
func New(code ErrorCode, message string, cause error) *StoreError {
	return &StoreError{Code: code, Message: message, Cause: cause}
}

// InvalidArgument reports a malformed input at the API boundary.
func InvalidArgument(message string) *StoreError {
	return New(ErrCodeInvalidArgument, message, nil)
}

// KeyNotFound reports that a key has no history (or is absent).
func KeyNotFound(key string) *StoreError {
	return New(ErrCodeNotFound, fmt.Sprintf("key not found: %s", key), nil).
		WithDetail("key", key)
}

// DurabilityDegraded reports that the WAL could not be opened, written, or
// flushed. The in-memory store remains fully functional; this is never
// fatal.
func DurabilityDegraded(message string, cause error) *StoreError {
	return New(ErrCodeDurabilityDegraded, message, cause)
}

// Internal wraps an unexpected internal failure.
func Internal(message string, cause error) *StoreError {
	return New(ErrCodeInternal, message, cause)
}

// Is reports whether err is a *StoreError with the given code.
func Is(err error, code ErrorCode) bool {
	se, ok := err.(*StoreError)
	return ok && se.Code == code
}

// Code extracts the ErrorCode from an error, defaulting to ErrCodeInternal
// for errors not produced by this package.
func Code(err error) ErrorCode {
	if se, ok := err.(*StoreError); ok {
		return se.Code
	}
	return ErrCodeInternal
}
