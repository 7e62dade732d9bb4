// Package errors provides structured error types for the elkscene application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, library, and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Distinguishing structural graph defects from transport failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into two contract-relevant classes plus infrastructure:
//   - Structural: the submitted graph itself is defective (missing or
//     duplicate ids, ambiguous edges). Retrying cannot help.
//   - Transport: the layout engine could not be reached or answered
//     garbage. The graph may be fine; the caller may retry.
//   - Everything else: configuration, lookup, and internal errors.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "duplicate node id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateID) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "engine %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors: the graph violates the contract.
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeMissingID     Code = "MISSING_ID"
	ErrCodeDuplicateID   Code = "DUPLICATE_ID"
	ErrCodeAmbiguousEdge Code = "AMBIGUOUS_EDGE"

	// Transport errors: the engine could not serve the request.
	ErrCodeTransport         Code = "TRANSPORT_FAILED"
	ErrCodeEngineUnavailable Code = "ENGINE_UNAVAILABLE"
	ErrCodeTimeout           Code = "TIMEOUT"
	ErrCodeInvalidResponse   Code = "INVALID_RESPONSE"

	// Layout rejection: the engine understood the request and refused it.
	ErrCodeLayoutRejected Code = "LAYOUT_REJECTED"

	// Configuration and lookup errors.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeNotFound      Code = "NOT_FOUND"

	// Internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsStructural reports whether err carries a structural error code,
// meaning the submitted graph itself violates the contract and a retry
// with the same input can never succeed.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidGraph, ErrCodeMissingID, ErrCodeDuplicateID, ErrCodeAmbiguousEdge:
		return true
	}
	return false
}

// IsTransport reports whether err carries a transport error code,
// meaning the layout engine was unreachable or answered an unusable
// response. The input graph may be perfectly valid; the caller may
// retry at its own discretion.
func IsTransport(err error) bool {
	switch GetCode(err) {
	case ErrCodeTransport, ErrCodeEngineUnavailable, ErrCodeTimeout, ErrCodeInvalidResponse:
		return true
	}
	return false
}
