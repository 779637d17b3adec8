// Package apperr holds the error taxonomy shared by the server and the sync client.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable, machine-readable error category sent as the "error" field.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindDuplicateUsername  Kind = "duplicate_username"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthorized       Kind = "unauthorized"
	KindNotFound           Kind = "not_found"
	KindMethodNotAllowed   Kind = "method_not_allowed"
	KindUpstream           Kind = "upstream"
	KindUnavailable        Kind = "unavailable"
	KindInternal           Kind = "internal"
)

// Sentinels for errors.Is checks. Any *Error matches the sentinel of its Kind.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrDuplicateUsername  = &Error{Kind: KindDuplicateUsername, Message: "Username is already taken"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid username or password"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrUpstream           = &Error{Kind: KindUpstream, Message: "Upstream service error"}
	ErrUnavailable        = &Error{Kind: KindUnavailable, Message: "Feature is not configured"}
	ErrInternal           = &Error{Kind: KindInternal, Message: "Server error"}
)

// Error is a classified error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err under kind, keeping it for errors.Unwrap.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }

func Upstream(msg string, err error) *Error { return Wrap(KindUpstream, msg, err) }

func Unavailable(msg string) *Error { return New(KindUnavailable, msg) }

func Internal(msg string, err error) *Error { return Wrap(KindInternal, msg, err) }

// KindOf reports the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message carried by err.
// Unclassified errors get a generic message so internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return ErrInternal.Message
}
