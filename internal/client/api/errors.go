package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures (connection refused,
	// timeout). The backend never saw, or never answered, the request.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks a 401 response. The gateway has already fired
	// its unauthorized hook by the time a caller sees this error.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx backend response other than 401. Message carries the
// backend-provided text when present, else a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
