package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call so callers can react without parsing
// messages.
type Kind string

const (
	// KindNetwork means no response arrived (transport failure or timeout).
	KindNetwork Kind = "network"
	// KindServer is any 5xx response.
	KindServer Kind = "server_error"
	// KindUnauthorized is a 401; the session has already been cleared.
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	// KindApplication is any other non-2xx response, carrying the server
	// message when one was sent.
	KindApplication Kind = "application_error"
	// KindValidation is a client-side rejection that never reached the
	// network.
	KindValidation Kind = "validation_error"
)

// Error is returned for every failed request.
type Error struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindValidation:
		return "validation: " + e.Message
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s on %s %s: %v", e.Kind, e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s (%d) on %s %s: %s", e.Kind, e.Status, e.Method, e.Path, e.Message)
	default:
		return fmt.Sprintf("%s (%d) on %s %s", e.Kind, e.Status, e.Method, e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError reports bad input caught before any request is sent.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsKind reports whether err (or any error in its chain) is an *Error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// kindForStatus maps a non-2xx status to its Kind.
func kindForStatus(status int) Kind {
	switch {
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindApplication
	}
}
