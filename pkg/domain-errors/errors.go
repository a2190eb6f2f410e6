// Package domainerrors defines code-tagged errors shared across services.
//
// Stores report infrastructure facts via pkg/platform/sentinel; services
// translate those into domain errors carrying a Code that the transport
// layer maps onto HTTP status codes. Codes classify the failure for the
// caller, messages stay human-readable.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks rejected input: unknown type pairs, malformed
	// identifiers, blank required fields.
	CodeValidation Code = "validation"
	// CodeUnauthorized marks a missing or unusable caller identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks lookups that found no visible row. A row hidden by
	// soft delete is reported identically to ordinary callers.
	CodeNotFound Code = "not_found"
	// CodeConflict marks identifier collisions that atomic allocation should
	// have made impossible. Never swallowed.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks aggregate invariants broken at
	// construction or mutation time.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeBadRequest marks structurally invalid requests before any
	// domain-level validation runs.
	CodeBadRequest Code = "bad_request"
	// CodeTimeout marks operations abandoned because their context expired.
	CodeTimeout Code = "timeout"
	// CodeInternal marks persistence and other infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's classification.
func (e *Error) Code() Code { return e.code }

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{code: code, message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while keeping it in the chain
// for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain, or
// CodeInternal when err carries no classification.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.code
	}
	return CodeInternal
}
