// Package apperror is the closed set of failure categories surfaced by the
// application services. Handlers map a Kind to a response status; the cause of
// an Unavailable error is kept for logs only.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindInvalidCredentials
	KindUnavailable
	KindUpstreamGeocode
	KindInvalidInput
)

const unavailableMessage = "something went wrong, please try again later"

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnavailable:
		return "unavailable"
	case KindUpstreamGeocode:
		return "upstream_geocode_failure"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Status returns the HTTP status for k. Every kind has a distinct status.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidCredentials:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUpstreamGeocode:
		return http.StatusUnprocessableEntity
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a categorized failure. Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound) works
// for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials, please try again"}
	ErrUnavailable        = &Error{Kind: KindUnavailable, Message: unavailableMessage}
	ErrUpstreamGeocode    = &Error{Kind: KindUpstreamGeocode, Message: "could not find location for the specified address"}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Message: "invalid input fields"}
)

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func InvalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }

// Unavailable wraps a store or transaction failure. The message never includes cause.
func Unavailable(cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: unavailableMessage, cause: cause}
}

// UpstreamGeocode wraps a geocoder failure.
func UpstreamGeocode(cause error) *Error {
	return &Error{Kind: KindUpstreamGeocode, Message: ErrUpstreamGeocode.Message, cause: cause}
}

// KindOf returns the Kind of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// From returns err as an *Error, treating uncategorized errors as Unavailable.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Unavailable(err)
}
