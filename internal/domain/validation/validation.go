// Package validation marks domain errors that describe bad caller input.
// Handlers map these to 400; anything else is treated as a server fault.
package validation

import "errors"

// Error is a user-facing validation failure.
type Error struct {
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Msg
}

// New returns a validation error with the given message.
// Package-level sentinels built with New compare equal under errors.Is.
func New(msg string) *Error {
	return &Error{Msg: msg}
}

// Is reports whether err (or anything it wraps) is a validation error.
func Is(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}
