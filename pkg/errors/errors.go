// Package errors defines the coded errors shared by the engine, the scene
// layer, the CLI and the HTTP API.
//
// Every fault anchor reports carries a [Code]. Codes group into categories by
// prefix, which is what callers usually branch on:
//
//	INVALID_*   the caller's input or configuration is wrong
//	PIPELINE_*  the middleware pipeline failed to settle
//	PLATFORM_*  the platform provider could not measure
//
// A Code is itself an error, so the standard library can match it anywhere in
// a chain:
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "allowedPlacements must not be empty")
//	stderrors.Is(fmt.Errorf("autoPlacement: %w", err), errors.ErrCodeInvalidConfig) // true
//
// [Is] is the same check without the import alias.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidPlacement Code = "INVALID_PLACEMENT"
	ErrCodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	ErrCodeInvalidScene     Code = "INVALID_SCENE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// ErrCodePipelineDiverged means the reset bound was exceeded.
	ErrCodePipelineDiverged Code = "PIPELINE_DIVERGED"

	ErrCodePlatform Code = "PLATFORM_ERROR"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Category returns the code's prefix up to the first underscore, e.g.
// "INVALID" or "PIPELINE".
func (c Code) Category() string {
	if i := strings.IndexByte(string(c), '_'); i > 0 {
		return string(c[:i])
	}
	return string(c)
}

// Error makes a bare Code usable as an errors.Is target.
func (c Code) Error() string { return string(c) }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a target Code against e's code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCodeOr is GetCode with a fallback for uncoded errors.
func GetCodeOr(err error, fallback Code) Code {
	if c := GetCode(err); c != "" {
		return c
	}
	return fallback
}

// IsInvalid reports whether err carries an INVALID_* code.
func IsInvalid(err error) bool {
	return GetCode(err).Category() == "INVALID"
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
