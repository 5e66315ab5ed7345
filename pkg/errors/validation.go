package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimension checks that a width, height or padding value is a finite,
// non-negative number. name is used in the error message.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGeometry, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidGeometry, "%s must not be negative (got %g)", name, v)
	}
	return nil
}

// ValidateCoordinate checks that a position value is finite. Unlike
// dimensions, coordinates may be negative.
func ValidateCoordinate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGeometry, "%s must be a finite number", name)
	}
	return nil
}

// ValidatePath validates a scene file path supplied by a user.
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

// ValidateName validates a stage or scene name: non-empty, printable, no
// whitespace, at most 64 characters.
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "%s name too long (max 64 characters)", kind)
	}
	if strings.IndexFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return New(ErrCodeInvalidInput, "%s name %q contains whitespace or control characters", kind, name)
	}
	return nil
}
