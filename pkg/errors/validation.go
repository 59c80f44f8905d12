package errors

import (
	"strings"
	"unicode"
)

// MaxModuleIDLength bounds module identifiers accepted from user input.
const MaxModuleIDLength = 128

// ValidateModuleID validates a module identifier received from a user query
// (CLI argument, URL path segment). It does not check that the module exists.
//
// Rejected inputs:
//   - empty or whitespace-only IDs
//   - IDs longer than MaxModuleIDLength
//   - control characters, including null bytes
func ValidateModuleID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "module ID cannot be empty")
	}

	if len(id) > MaxModuleIDLength {
		return New(ErrCodeInvalidInput, "module ID too long (max %d characters)", MaxModuleIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module ID contains invalid control characters")
		}
	}

	return nil
}

// ValidateSemester validates a semester filter value. Accepted values are the
// sentinel "ALL", the empty string (treated as ALL by the filter engine), or a
// short token without separators such as "3" or "HS".
func ValidateSemester(s string) error {
	if s == "" || s == "ALL" {
		return nil
	}
	if len(s) > 16 {
		return New(ErrCodeInvalidFilter, "semester too long (max 16 characters)")
	}
	for _, r := range s {
		if unicode.IsControl(r) || r == ';' {
			return New(ErrCodeInvalidFilter, "semester contains invalid characters: %q", s)
		}
	}
	return nil
}

// ValidatePath validates a relative data file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
