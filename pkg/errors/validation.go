package errors

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSectionNameLength bounds section names so they stay printable in tables and charts.
const maxSectionNameLength = 128

// ValidateFinite checks that a numeric field holds a finite value.
// NaN and ±Inf are rejected with ErrCodeInvalidInput naming the field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", field, v)
	}
	return nil
}

// ValidateSectionName validates a section name for display and storage.
//
// The validation rules are:
//   - No empty (or whitespace-only) names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateSectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "section name cannot be empty")
	}

	if utf8.RuneCountInString(name) > maxSectionNameLength {
		return New(ErrCodeInvalidInput, "section name too long (max %d characters)", maxSectionNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "section name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a file path given on the command line or in config.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}
