// Package errors provides structured error types for the revetment toolkit.
//
// This package defines error codes and types that enable:
//   - Distinguishable failure kinds for every sizing and validation step
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - INVALID_* / UNKNOWN_*: input validation and lookup failures
//   - UNSTABLE_SLOPE, CONVERGENCE_FAILURE, DEGENERATE_MATERIAL: sizing failures
//   - NOT_FOUND, FILE_NOT_FOUND, INTERNAL_*, UNSUPPORTED: tool-level failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidVelocity, "velocity %.2f m/s exceeds %.1f m/s", v, max)
//	if errors.Is(err, errors.ErrCodeInvalidVelocity) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidVelocity      Code = "INVALID_VELOCITY"
	ErrCodeUnknownMaterial      Code = "UNKNOWN_MATERIAL"
	ErrCodeUnknownZone          Code = "UNKNOWN_ZONE"
	ErrCodeInvalidBoundaryLayer Code = "INVALID_BOUNDARY_LAYER"
	ErrCodeInvalidFormat        Code = "INVALID_FORMAT"
	ErrCodeInvalidPath          Code = "INVALID_PATH"

	// Sizing errors
	ErrCodeUnstableSlope      Code = "UNSTABLE_SLOPE"
	ErrCodeConvergenceFailure Code = "CONVERGENCE_FAILURE"
	ErrCodeDegenerateMaterial Code = "DEGENERATE_MATERIAL"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Context wraps err with a message while keeping its code.
// Errors without a code are wrapped as ErrCodeInternal.
func Context(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Wrap(code, err, format, args...)
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
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
