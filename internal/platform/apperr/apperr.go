// Package apperr defines the application error taxonomy and its mapping to
// HTTP responses. Services return these typed errors; the echo error handler
// translates them at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindCooldown               // donation cooldown not yet elapsed
	KindUnauthorized           // missing or invalid credentials
	KindForbidden              // authenticated but not the owner
	KindNotFound               // unknown entity id
	KindState                  // invalid lifecycle transition
	KindInternal               // unexpected failure
)

// Error is a typed application error. Extra carries structured payload fields
// (e.g. days_remaining for cooldown violations) merged into the response body.
type Error struct {
	Kind    Kind
	Message string
	Extra   map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus returns the status code for this error's kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindCooldown, KindState:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Cooldown reports a donation attempted before the cooldown window elapsed.
func Cooldown(daysRemaining int) *Error {
	return &Error{
		Kind:    KindCooldown,
		Message: fmt.Sprintf("you must wait %d more day(s) before donating again", daysRemaining),
		Extra:   map[string]interface{}{"days_remaining": daysRemaining},
	}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func State(format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// As extracts an *Error from err, unwrapping as needed.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
