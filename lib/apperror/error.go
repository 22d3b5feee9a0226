// Package apperror defines the application error taxonomy shared by all
// upstream integrations. Errors are a closed set of kinds with HTTP status
// semantics; callers match on Kind rather than on error subtypes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindBadRequest Kind = iota
	KindNotAuthorized
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindConflict
	KindPreconditionFailed
	// KindClient is a generic 4xx error; the status code is configurable per error.
	KindClient
	KindServer
	KindUnknown
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindNotAuthorized:
		return "not authorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindMethodNotAllowed:
		return "method not allowed"
	case KindConflict:
		return "conflict"
	case KindPreconditionFailed:
		return "precondition failed"
	case KindClient:
		return "client error"
	case KindServer:
		return "server error"
	case KindNotImplemented:
		return "not implemented"
	default:
		return "unknown error"
	}
}

// Error is a typed application error. Service and Identifiers are only set on
// errors raised at the service-wrapper boundary, where they identify the
// originating data store and the lookup keys that produced the failure.
type Error struct {
	Kind    Kind
	Message string
	// StatusCode overrides the kind's default HTTP status. Only honored for KindClient.
	StatusCode  int
	Details     any
	Service     string
	Identifiers map[string]string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP response code the error maps to.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotAuthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindConflict:
		return http.StatusConflict
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case KindClient:
		if e.StatusCode != 0 {
			return e.StatusCode
		}
		return http.StatusBadRequest
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func BadRequest(message string, details any) *Error {
	if message == "" {
		message = "Bad request"
	}
	return &Error{Kind: KindBadRequest, Message: message, Details: details}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

func Server(message string, cause error) *Error {
	return &Error{Kind: KindServer, Message: message, Cause: cause}
}

// NotFoundForService is the structured not-found signal raised by service
// wrappers: it carries the originating data-store name and the lookup keys,
// which the query layer surfaces verbatim as machine-readable error metadata.
func NotFoundForService(service, message string, identifiers map[string]string) *Error {
	return &Error{
		Kind:        KindNotFound,
		Message:     message,
		Service:     service,
		Identifiers: identifiers,
	}
}

// Unhandled wraps any non-not-found wrapper failure. The cause is retained
// for logging but is not exposed to API clients.
func Unhandled(service string, cause error) *Error {
	return &Error{
		Kind:    KindUnknown,
		Message: "Unhandled error",
		Service: service,
		Cause:   cause,
	}
}

func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}
