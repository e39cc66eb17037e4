// Package errors provides structured error types for the depprobe application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library surface
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure classes of dependency detection:
//   - INVALID_*: option/configuration validation failures, always fatal
//   - NOT_FOUND_*: a dependency or tool is absent, fatal only when required
//   - TOOL_FAILURE: a located tool misbehaved on a query expected to
//     succeed, always fatal (broken installation, not absence)
//   - VERSION_MISMATCH: the dependency exists but fails its version
//     constraints, fatal only when required
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "dependency %q not found", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle absence
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeToolFailure, origErr, "could not generate cflags for %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Option/configuration validation errors (always fatal)
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidMethod Code = "INVALID_METHOD"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Absence errors (fatal only when the lookup is required)
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeToolNotFound    Code = "TOOL_NOT_FOUND"
	ErrCodeProgramNotFound Code = "PROGRAM_NOT_FOUND"
	ErrCodeModuleNotFound  Code = "MODULE_NOT_FOUND"

	// Tool malfunction (always fatal regardless of required)
	ErrCodeToolFailure Code = "TOOL_FAILURE"

	// Version constraint failures (fatal only when required)
	ErrCodeVersionMismatch Code = "VERSION_MISMATCH"

	// Internal errors
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

// IsFatal reports whether err belongs to a class that must abort the lookup
// even when the dependency was marked optional. Configuration errors and
// tool malfunctions are always fatal; absence and version mismatches are not.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidOption, ErrCodeInvalidMethod, ErrCodeInvalidName,
		ErrCodeInvalidConfig, ErrCodeToolFailure, ErrCodeInternal:
		return true
	}
	return false
}
