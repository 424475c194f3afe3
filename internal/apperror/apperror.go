// Package apperror defines the error kinds surfaced by the services. Handlers
// map a Kind onto a response status; internal errors never leak their cause.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuthentication:
		return "authentication"
	default:
		return "internal"
	}
}

const internalMessage = "An unexpected error occurred"

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

// Is matches another *Error of the same kind and message, so the package
// level values below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// PublicMessage is what a caller outside the process may see.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal {
		return internalMessage
	}
	return e.Message
}

var (
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "Email already registered"}
	ErrUsernameTaken      = &Error{Kind: KindConflict, Message: "Username already registered"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "Invalid credentials"}
	ErrInvalidPassword    = &Error{Kind: KindAuthentication, Message: "Current password is incorrect"}
	ErrTokenExpired       = &Error{Kind: KindAuthentication, Message: "Token expired"}
	ErrTokenInvalid       = &Error{Kind: KindAuthentication, Message: "Invalid token"}
	ErrTokenRevoked       = &Error{Kind: KindAuthentication, Message: "Token invalid due to password change"}
	ErrURLNotFound        = &Error{Kind: KindNotFound, Message: "Short URL not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: internalMessage, Err: err}
}

// KindOf reports the kind carried by err. Errors that are not *Error are
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// From returns err as an *Error, wrapping foreign errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
