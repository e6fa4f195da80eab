// Package errors provides structured error types for zwconf.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the resolver and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Resolution errors follow the failure taxonomy of the import engine:
// a document either fully resolves or fails with exactly one code from
// the resolution family below. There is no partial-success mode.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeKeyNotFound, "key %q not found in %s", key, file)
//	if errors.Is(err, errors.ErrCodeKeyNotFound) {
//	    // Handle missing template key
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, jsonErr, "parsing %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Resolution errors. Any of these aborts the entire resolution
	// for the document being processed.
	ErrCodeParse            Code = "PARSE_ERROR"
	ErrCodeImportSyntax     Code = "IMPORT_SYNTAX"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeKeyNotFound      Code = "KEY_NOT_FOUND"
	ErrCodeMergeConflict    Code = "MERGE_CONFLICT"
	ErrCodeCyclicImport     Code = "CYCLIC_IMPORT"

	// Lookup errors from the file locator
	ErrCodeDeviceNotFound       Code = "DEVICE_NOT_FOUND"
	ErrCodeManufacturerNotFound Code = "MANUFACTURER_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Infrastructure errors
	ErrCodeCacheBackend Code = "CACHE_BACKEND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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
