package preserve

import (
	"errors"
	"fmt"
)

// Code categorises a persistence failure
type Code string

const (
	// CodeAlreadyExists indicates a save is already present at the location
	CodeAlreadyExists Code = "already_exists"

	// CodeNotFound indicates there is no save at the location, or no such attribute
	CodeNotFound Code = "not_found"

	// CodeAccessDenied indicates an access check or deletion was refused
	CodeAccessDenied Code = "access_denied"

	// CodeVerificationFailed indicates the supplied password did not match
	CodeVerificationFailed Code = "verification_failed"

	// CodeSchemaIncompatible indicates a save that cannot be decoded or migrated
	CodeSchemaIncompatible Code = "schema_incompatible"

	// CodeIO indicates the storage backend failed
	CodeIO Code = "io"
)

// Error is the only error type returned by this package's stores and Manager.
// Backend errors are kept as Cause and never surface on their own.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match on the code alone, e.g. errors.Is(err, ErrNotFound)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrAccessDenied       = &Error{Code: CodeAccessDenied}
	ErrVerificationFailed = &Error{Code: CodeVerificationFailed}
	ErrSchemaIncompatible = &Error{Code: CodeSchemaIncompatible}
	ErrIO                 = &Error{Code: CodeIO}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// AlreadyExists creates an already exists error
func AlreadyExists(loc Location) *Error {
	return newError(CodeAlreadyExists, "save %s already exists", loc)
}

// NotFound creates a not found error
func NotFound(format string, args ...any) *Error {
	return newError(CodeNotFound, format, args...)
}

// AccessDenied creates an access denied error carrying a reason
func AccessDenied(reason string) *Error {
	if reason == "" {
		reason = "access check failed"
	}
	return newError(CodeAccessDenied, "%s", reason)
}

// VerificationFailed creates a verification error
func VerificationFailed() *Error {
	return newError(CodeVerificationFailed, "verification failed")
}

// SchemaIncompatible wraps a decode or migration failure
func SchemaIncompatible(err error, format string, args ...any) *Error {
	return wrapError(err, CodeSchemaIncompatible, format, args...)
}

// IOError wraps a backend failure
func IOError(err error, format string, args ...any) *Error {
	return wrapError(err, CodeIO, format, args...)
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool { return Is(err, CodeAlreadyExists) }

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

// IsAccessDenied checks if the error is an access denied error
func IsAccessDenied(err error) bool { return Is(err, CodeAccessDenied) }

// IsVerificationFailed checks if the error is a verification error
func IsVerificationFailed(err error) bool { return Is(err, CodeVerificationFailed) }

// IsSchemaIncompatible checks if the error is a schema error
func IsSchemaIncompatible(err error) bool { return Is(err, CodeSchemaIncompatible) }

// IsIO checks if the error is a storage backend error
func IsIO(err error) bool { return Is(err, CodeIO) }
