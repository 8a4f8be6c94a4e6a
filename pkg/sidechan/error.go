package sidechan

import (
	"errors"
	"fmt"
)

// Error represents a failed side-channel call.
type Error struct {
	// Message is the backend's error message.
	Message string `json:"error"`

	// Details is the underlying provider failure, when the backend
	// reports one.
	Details string `json:"details,omitempty"`

	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface. The text is what the timeline
// shows the user, so it stays free of transport noise.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// IsInvalidRequest returns true for client-side validation failures.
func (e *Error) IsInvalidRequest() bool {
	return e.HTTPStatus >= 400 && e.HTTPStatus < 500
}

// IsServerError returns true for backend or provider failures.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request could be retried. Validation
// failures never are.
func (e *Error) Retryable() bool {
	return e.HTTPStatus == 429 || e.IsServerError()
}

// AsError extracts *Error from an error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
