// Package errors defines the coded errors iconatlas returns.
//
// An [*Error] carries a [Code] that callers branch on, a message meant for
// people, and an optional cause. Codes survive wrapping with fmt.Errorf:
//
//	if errors.Is(err, errors.ErrCodeNoImagesProduced) {
//	    // every icon failed to rasterize
//	}
//
// [UserMessage] drops the code prefix for terminal output.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Invalid arguments or input files.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidImage   Code = "INVALID_IMAGE"
	ErrCodeInvalidPadding Code = "INVALID_PADDING"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidName    Code = "INVALID_NAME"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeDuplicateName  Code = "DUPLICATE_NAME"

	// Missing files or tools.
	ErrCodeFileNotFound       Code = "FILE_NOT_FOUND"
	ErrCodeRasterizerNotFound Code = "RASTERIZER_NOT_FOUND"

	// External rasterizer failures.
	ErrCodeRasterizeFailed  Code = "RASTERIZE_FAILED"
	ErrCodeNoImagesProduced Code = "NO_IMAGES_PRODUCED"

	// Packing invariant violations.
	ErrCodeOverflowPlacement Code = "OVERFLOW_PLACEMENT"

	// Bugs.
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
