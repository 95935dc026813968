// Package errors defines the typed errors the API returns. Each error carries
// a stable code, the HTTP status it maps to, and a client-facing message.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a coded API error. Two errors with the same Code are the same kind
// of failure regardless of message, so errors.Is matches clones of a
// sentinel.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates an Error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches cause to an error with an explicit code and status. Prefer
// WrapAs when a sentinel exists.
func Wrap(cause error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: cause}
}

// WrapAs attaches cause to a copy of kind. An empty message keeps kind's.
func WrapAs(cause error, kind *Error, message string) *Error {
	if kind == nil {
		kind = ErrInternal
	}
	wrapped := Clone(kind, message)
	wrapped.Err = cause
	return wrapped
}

// Clone copies a sentinel, optionally replacing its message. Sentinels are
// shared and must never be mutated.
func Clone(kind *Error, message string) *Error {
	if kind == nil {
		return nil
	}
	clone := *kind
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Session and generic request errors.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrTooManyRequests    = New("TOO_MANY_REQUESTS", http.StatusTooManyRequests, "too many requests")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// ErrCacheMiss is returned by cache repositories for an absent key. It never
// reaches a client.
var ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")

// Availability errors.
var (
	ErrTrackNotAssigned  = New("TRACK_NOT_ASSIGNED", http.StatusForbidden, "you are not assigned to this track")
	ErrNothingToConfirm  = New("NOTHING_TO_CONFIRM", http.StatusNotFound, "no unconfirmed availability to confirm")
	ErrNoSlotsSelected   = New("NO_SLOTS_SELECTED", http.StatusBadRequest, "no slots selected")
	ErrAvailabilityStale = New("AVAILABILITY_STALE", http.StatusPreconditionFailed, "availability changed since last read")
)

// Is reports whether err carries the code of kind anywhere in its chain.
func Is(err error, kind *Error) bool {
	if err == nil || kind == nil {
		return false
	}
	return errors.Is(err, kind)
}

// FromError returns the first *Error in err's chain. Anything else becomes
// an internal error wrapping err.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapAs(err, ErrInternal, "")
}

// StatusOf returns the HTTP status err maps to. Nil maps to 200.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return FromError(err).Status
}
