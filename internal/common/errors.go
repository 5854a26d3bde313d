package common

import (
	"errors"
	"net/http"
)

// Error taxonomy for the whole service. Repositories and services wrap
// these sentinels with fmt.Errorf("...: %w", ...) so transport code can
// map them with errors.Is.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	// ErrTransient marks backend failures (store, push transport) that the
	// caller may retry; the service itself never retries.
	ErrTransient = errors.New("transient backend error")
)

// HTTPStatus maps a service error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTransient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
