// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	"context"
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across the pipeline
// Values are stable for log/exit-status compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeUnavailable is for transient upstream errors where retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is for upstream rate limiting
	ErrorCodeTooManyRequests

	// ErrorCodeUnauthorized is for credential/auth failures
	ErrorCodeUnauthorized

	// ErrorCodeForbidden is for access control failures (private/banned subreddit)
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for configuration validation failures
	ErrorCodeValidation

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeCorrupt is for unreadable persisted state that must never be
	// silently treated as empty
	ErrorCodeCorrupt

	// ErrorCodeWrite is for per-artifact output failures
	ErrorCodeWrite

	// ErrorCodeLocked is for a run lock already held by another process
	ErrorCodeLocked
)

// Process exit statuses for fatal error classes
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitConfig     = 2
	ExitAuth       = 3
	ExitCorrupt    = 4
	ExitLocked     = 5
	ExitCancelled  = 6
	ExitPartialOut = 7
)

// ExitCodeFor turns an ErrorCode into a process exit status
func ExitCodeFor(c ErrorCode) int {
	switch c {
	case ErrorCodeValidation, ErrorCodeInvalidArgument:
		return ExitConfig
	case ErrorCodeUnauthorized, ErrorCodeForbidden:
		return ExitAuth
	case ErrorCodeCorrupt:
		return ExitCorrupt
	case ErrorCodeLocked:
		return ExitLocked
	case ErrorCodeWrite:
		return ExitPartialOut
	default:
		return ExitFailure
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// unit is optional context (keyword or post the failure belongs to); op is an optional operation tag
// orig is the wrapped cause
type Error struct {
	orig error
	msg  string
	code ErrorCode
	unit string
	op   string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Unit returns the unit of work the error belongs to, if any
func (e *Error) Unit() string { return e.unit }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the mapped process exit status for any error
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return ExitCancelled
	}
	return ExitCodeFor(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithUnit attaches a unit-of-work label to an *Error (copy-on-write).
// If err isn't *Error, returns err unchanged
func WithUnit(err error, unit string) error {
	if e, ok := As(err); ok {
		c := *e
		c.unit = unit
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a configuration validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// Unauthorizedf returns an unauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Forbiddenf returns a forbidden error
func Forbiddenf(format string, a ...any) error { return Newf(ErrorCodeForbidden, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// TooManyf returns a rate limited error
func TooManyf(format string, a ...any) error { return Newf(ErrorCodeTooManyRequests, format, a...) }

// Corruptf returns a corrupt-state error
func Corruptf(format string, a ...any) error { return Newf(ErrorCodeCorrupt, format, a...) }

// Writef returns a per-artifact write error
func Writef(format string, a ...any) error { return Newf(ErrorCodeWrite, format, a...) }

// Lockedf returns a lock contention error
func Lockedf(format string, a ...any) error { return Newf(ErrorCodeLocked, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// Retry semantics

// Retryable reports whether the error is transient: a retry of the same
// request may succeed. Auth, validation, and corrupt-state errors never are
func Retryable(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	default:
		return false
	}
}

// Fatal reports whether the error must abort the whole run before any
// seen-set mutation is persisted
func Fatal(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnauthorized, ErrorCodeForbidden, ErrorCodeValidation,
		ErrorCodeInvalidArgument, ErrorCodeCorrupt, ErrorCodeLocked:
		return true
	default:
		return false
	}
}
