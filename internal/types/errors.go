package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error for the operation surface. The three
// kinds map onto the wire taxonomy: validation (400-class), permission
// (403-class) and not-found (404-class).
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindPermission ErrorKind = "permission"
	KindNotFound   ErrorKind = "not_found"
)

// Error is a classified error. It wraps an optional cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationErrorf builds a validation error.
func ValidationErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// PermissionErrorf builds a permission error.
func PermissionErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundErrorf builds a not-found error.
func NotFoundErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func kindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsValidation reports whether err carries the validation kind.
func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}

// IsPermission reports whether err carries the permission kind.
func IsPermission(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindPermission
}

// IsNotFound reports whether err carries the not-found kind.
func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}
