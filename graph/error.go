package graph

import (
	"errors"

	"github.com/ndp-scot/cdr-gateway/lib/apperror"
)

// QueryError is one entry of the errors envelope.
type QueryError struct {
	Message    string     `json:"message"`
	Extensions Extensions `json:"extensions"`
}

type Extensions struct {
	Code          string            `json:"code"`
	API           string            `json:"api,omitempty"`
	Identifiers   map[string]string `json:"identifiers,omitempty"`
	DataStoreName string            `json:"dataStoreName,omitempty"`
}

// FormatError maps wrapper errors to the external error contract. Not-found
// keeps its message, service name and lookup identifiers; everything else is
// reduced to a generic message so no internal detail leaks.
func FormatError(err error) QueryError {
	var appError *apperror.Error
	if errors.As(err, &appError) {
		switch appError.Kind {
		case apperror.KindNotFound:
			return QueryError{
				Message: appError.Message,
				Extensions: Extensions{
					Code:        "NOT_FOUND",
					API:         appError.Service,
					Identifiers: appError.Identifiers,
				},
			}
		case apperror.KindBadRequest:
			return QueryError{
				Message:    appError.Message,
				Extensions: Extensions{Code: "BAD_USER_INPUT"},
			}
		case apperror.KindUnknown, apperror.KindServer:
			if appError.Service != "" {
				return QueryError{
					Message:    "An unexpected error occurred",
					Extensions: Extensions{Code: "INTERNAL_SERVER_ERROR", API: appError.Service},
				}
			}
		}
	}
	return QueryError{
		Message:    "An unexpected error occurred",
		Extensions: Extensions{Code: "INTERNAL_SERVER_ERROR"},
	}
}
