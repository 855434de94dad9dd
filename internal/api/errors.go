package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three non-server failure kinds. A caller can tell
// all four kinds apart with errors.Is / errors.As.
var (
	// ErrInvalidInput marks input rejected locally, before any network call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout marks a round-trip that exceeded the client timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrUnreachable marks a request that got no response at all.
	ErrUnreachable = errors.New("backend unreachable")
)

// ServerError means the backend was reached and answered with a failure
// status. Message comes from a structured error body if present, else the
// HTTP status text.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
}

// UserMessage converts any client error into a single human-readable line
// suitable for an error-type chat message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "Please enter a question."
	case errors.Is(err, ErrTimeout):
		return "The request timed out after 60 seconds. The backend may be overloaded; please try again."
	case errors.Is(err, ErrUnreachable):
		return "Could not reach the backend. Check that the server is running, then retry."
	}
	var se *ServerError
	if errors.As(err, &se) {
		return fmt.Sprintf("The server returned an error (HTTP %d): %s", se.Status, se.Message)
	}
	return err.Error()
}
