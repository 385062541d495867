// Package apierror defines the error taxonomy shared by the HTTP-backed and
// in-memory resource repos, so callers can branch with errors.Is regardless of
// which backend is active.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Authentication/authorization errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrSessionExpired = errors.New("session expired")

	// Resource errors
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// HTTPError carries the status code and the server-provided message of a
// non-2xx response. It matches the sentinel errors above via errors.Is, so a
// 404 from the real backend and an ErrNotFound from an in-memory fake are
// indistinguishable to callers.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is maps status codes onto the sentinel errors.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// NewHTTPError builds an HTTPError from a status code and an optional server
// message. An empty message yields the generic "HTTP <status>: <statusText>"
// form.
func NewHTTPError(statusCode int, message string) *HTTPError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
	}
	return &HTTPError{StatusCode: statusCode, Message: message}
}
