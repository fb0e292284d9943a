package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedRequest rejects a send or typing event with a missing
	// or invalid required field. The connection stays open.
	ErrMalformedRequest = fmt.Errorf("malformed request")

	// ErrPersistenceFailure aborts a send entirely: the durable append
	// failed, so no delivery is attempted.
	ErrPersistenceFailure = fmt.Errorf("persistence failure")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

// MapToHTTPStatus translates a domain error for the read-side API.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrPersistenceFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
