// Package apperr defines the error taxonomy shared by services and
// controllers. A service returns an *Error carrying a Kind and a short
// human-readable message; the controller maps the Kind to an HTTP status and
// forwards the message as-is. Anything that is not an *Error is treated as an
// internal failure and never exposed to the caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure.
type Kind int

const (
	// Unauthorized means no or invalid caller identity.
	Unauthorized Kind = iota
	// Forbidden means authenticated but entitlement/role insufficient.
	Forbidden
	// NotFound means a referenced product, cart item, order or address
	// is absent.
	NotFound
	// InvalidInput means a missing or malformed required field.
	InvalidInput
	// InvalidState means the operation is not possible in the current
	// state (empty cart, no default address).
	InvalidState
	// InvalidSignature means a payment callback failed authenticity.
	InvalidSignature
	// Upstream means a payment gateway or notification service error.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case InvalidState:
		return "invalid_state"
	case InvalidSignature:
		return "invalid_signature"
	case Upstream:
		return "upstream_failure"
	}
	return "unknown"
}

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error while keeping it in the chain.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err, or (0, false) for unclassified errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// MessageOf returns the user-facing message of err, or a generic fallback for
// unclassified errors so internals are never leaked to callers.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// Status maps an error to the HTTP status code the API responds with.
func Status(err error) int {
	k, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch k {
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidInput:
		return http.StatusBadRequest
	case InvalidState:
		return http.StatusConflict
	case InvalidSignature:
		return http.StatusBadRequest
	case Upstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
