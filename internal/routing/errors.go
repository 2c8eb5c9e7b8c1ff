package routing

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindTenantNotFound      ErrorKind = "tenant_not_found"
	KindClientNotFound      ErrorKind = "client_not_found"
	KindNotFound            ErrorKind = "not_found"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindBadRequest          ErrorKind = "bad_request"
	KindServerConfiguration ErrorKind = "server_configuration"
	KindUpstream            ErrorKind = "upstream"
)

// Error is a routing failure. Errors compare equal under errors.Is when their
// kinds match.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrTenantNotFound      = &Error{Kind: KindTenantNotFound, Message: "realm not found"}
	ErrClientNotFound      = &Error{Kind: KindClientNotFound, Message: "client not found"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "not logged in"}
	ErrBadRequest          = &Error{Kind: KindBadRequest, Message: "invalid origin"}
	ErrServerConfiguration = &Error{Kind: KindServerConfiguration, Message: "login-status-iframe.html not available"}
	ErrUpstream            = &Error{Kind: KindUpstream, Message: "upstream failure"}
)

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of err; anything that is not a routing Error is
// reported as an upstream failure.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

type errorResponse struct {
	status int
	slug   string
	title  string
}

var errorResponses = map[ErrorKind]errorResponse{
	KindTenantNotFound:      {http.StatusNotFound, "realm-not-found", "Realm not found"},
	KindClientNotFound:      {http.StatusNotFound, "client-not-found", "Client not found"},
	KindNotFound:            {http.StatusNotFound, "not-found", "Not found"},
	KindUnauthorized:        {http.StatusUnauthorized, "unauthorized", "Not logged in"},
	KindBadRequest:          {http.StatusBadRequest, "invalid-origin", "Invalid origin"},
	KindServerConfiguration: {http.StatusNotFound, "server-configuration", "Resource not configured"},
	KindUpstream:            {http.StatusInternalServerError, "upstream-failure", "Unexpected error"},
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int { return errorResponses[KindOf(err)].status }
