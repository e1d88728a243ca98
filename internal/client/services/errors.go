package services

import (
	"errors"

	"github.com/echoenglish/echoenglish-cli/internal/client/api"
)

var (
	// ErrValidation marks local input errors caught before any network call.
	ErrValidation = errors.New("validation error")

	// ErrNotAuthenticated is returned by operations that require a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidStep is returned when a recovery-flow operation is invoked
	// from the wrong state.
	ErrInvalidStep = errors.New("operation not allowed in current step")
)

const (
	sessionExpiredMessage = "Your session has expired. Please log in again."
	unavailableMessage    = "Cannot reach the server. Please try again."
)

// userError carries a user-presentable message while preserving the
// underlying error for errors.Is/As checks.
type userError struct {
	msg   string
	cause error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.cause }

// normalizeError converts gateway errors into the message the view layer
// shows. Everything else passes through unchanged.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return &userError{msg: sessionExpiredMessage, cause: err}
	case errors.Is(err, api.ErrUnavailable):
		return &userError{msg: unavailableMessage, cause: err}
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &userError{msg: apiErr.Message, cause: err}
	}
	return err
}
