package basis

import (
	"errors"
	"fmt"
)

// ErrorKind classifies export failures so front ends can react without
// string matching.
type ErrorKind string

const (
	// ErrValidation marks bad user input (date, kind, format). Caught
	// before any network I/O; never worth retrying.
	ErrValidation ErrorKind = "validation"

	// ErrTransport marks a network-level failure (unreachable host,
	// TLS handshake).
	ErrTransport ErrorKind = "transport"

	// ErrLoginRejected means the login response set no cookies at all,
	// i.e. bad credentials.
	ErrLoginRejected ErrorKind = "login_rejected"

	// ErrTokenMissing means the login response set cookies but none of
	// them was an access_token.
	ErrTokenMissing ErrorKind = "token_missing"

	// ErrUnauthorized means the service no longer accepts the session
	// token (HTTP 401 on a data fetch).
	ErrUnauthorized ErrorKind = "unauthorized"

	// ErrMalformed means the response body did not decode as the
	// expected schema. Raw carries the body for diagnostics.
	ErrMalformed ErrorKind = "malformed_response"

	// ErrFetch marks a non-401, non-2xx data fetch status. Status
	// carries the code; the body may still have decoded.
	ErrFetch ErrorKind = "fetch"

	// ErrSink means the persistence collaborator failed to store a
	// finished artifact.
	ErrSink ErrorKind = "sink"
)

// Error is a classified export failure with whatever diagnostics the
// failing layer could attach.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int    // HTTP status, when one was seen
	Raw     []byte // response body, for malformed payloads
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

// NewError builds a classified error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError classifies an underlying error.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, wrapped: err}
}

func classify(kind ErrorKind) func(error) bool {
	return func(err error) bool {
		var e *Error
		if errors.As(err, &e) {
			return e.Kind == kind
		}
		return false
	}
}

// Predicates for the common branching points.
var (
	IsValidation    = classify(ErrValidation)
	IsTransport     = classify(ErrTransport)
	IsLoginRejected = classify(ErrLoginRejected)
	IsTokenMissing  = classify(ErrTokenMissing)
	IsUnauthorized  = classify(ErrUnauthorized)
	IsMalformed     = classify(ErrMalformed)
	IsFetch         = classify(ErrFetch)
	IsSink          = classify(ErrSink)
)

// KindOf returns the classified kind of err, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
