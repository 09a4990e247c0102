// Package apperr defines the error taxonomy shared by handlers and stores.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrNotFound           = errors.New("not found")
	ErrInvalidOperation   = errors.New("invalid operation")
)

// Status maps an error to its HTTP status code. Unknown errors are
// treated as server failures (e.g. the database going away).
func Status(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
