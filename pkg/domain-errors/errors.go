// Package domainerrors carries coded errors across service boundaries.
//
// Services return *Error values so transport adapters can translate them into
// status codes without inspecting messages. Stores return sentinel errors
// (see pkg/platform/sentinel) which services wrap with a code.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error kind.
type Code string

// Generic codes.
const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeRateLimited        Code = "rate_limited"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Account recovery codes. Each is a distinct outcome of the recovery flow.
const (
	CodeInvalidDateFormat  Code = "invalid_date_format"
	CodeNoMatchFound       Code = "no_match_found"
	CodeBirthDateMismatch  Code = "birth_date_mismatch"
	CodeAmbiguousMatch     Code = "ambiguous_match"
	CodeNoAccountForMember Code = "no_account_for_member"
	CodeAccountSuspended   Code = "account_suspended"
	CodeAccountDeleted     Code = "account_deleted"
	CodeEmailMismatch      Code = "email_mismatch"
	CodeStorageFailure     Code = "storage_failure"

	// CodeIdentityNotVerified is the public code that no_match_found and
	// birth_date_mismatch collapse into at the HTTP boundary.
	CodeIdentityNotVerified Code = "identity_not_verified"
)

// Error is a coded domain error. Message is safe to show to callers unless the
// code is internal; Err keeps the underlying cause for server-side logs.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error without an underlying cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
// Wrapping a nil error returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// As extracts the outermost *Error from err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost *Error, or CodeInternal for
// anything uncoded.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// IsInternal reports whether the error must be hidden from callers.
func (c Code) IsInternal() bool {
	return c == CodeInternal || c == CodeStorageFailure || c == CodeTimeout
}
