// Package errs holds the error taxonomy shared by the service and HTTP layers.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrStoreUnavailable means the backing store handle was never initialized.
	ErrStoreUnavailable = errors.New("store not initialized")
	ErrUnauthenticated  = errors.New("user not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	// ErrUpstream covers failures reported by object storage or the image host.
	ErrUpstream = errors.New("upstream service failed")
)

// StatusCode maps an error from any layer to the HTTP status it should be answered with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to API clients. Internal failures are not echoed verbatim.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
