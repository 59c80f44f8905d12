// Package errors defines the coded errors curnav returns for invalid
// queries, unknown identifiers and rejected input.
//
// Data-quality problems in a curriculum table are not errors: they are
// recovered during normalization and reported as records.Diagnostics. The
// codes here cover what a caller did wrong or asked for that does not exist.
//
// # Code families
//
// Lookups:
//   - MODULE_NOT_FOUND: a reachability query or selection names an unknown module
//   - SESSION_NOT_FOUND: a session ID is unknown or expired
//   - DATASET_NOT_FOUND: no stored dataset or discoverable file matches
//   - FILE_NOT_FOUND, NOT_FOUND: other missing resources
//
// Input:
//   - INVALID_FILTER: a filter with a malformed semester or blank tag/group
//   - INVALID_INPUT, INVALID_FORMAT, INVALID_CONFIG, INVALID_PATH
//
// Everything else is INTERNAL_ERROR or UNSUPPORTED. The HTTP server maps
// lookups to 404 and input errors to 400; [IsNotFound] groups the lookup
// family for callers that recover from a missing resource.
//
// # Usage
//
//	if _, err := g.Reachable(id); errors.Is(err, errors.ErrCodeModuleNotFound) {
//		fmt.Println(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidFilter Code = "INVALID_FILTER"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Lookups
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeModuleNotFound  Code = "MODULE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeDatasetNotFound Code = "DATASET_NOT_FOUND"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a [Code], a message fit for end users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error around cause. Sentinels of the cause stay reachable
// through the standard errors.Is.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err carries a code of the lookup family.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeModuleNotFound, ErrCodeFileNotFound,
		ErrCodeSessionNotFound, ErrCodeDatasetNotFound:
		return true
	}
	return false
}
