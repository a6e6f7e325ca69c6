package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the shape of every backend response.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

var ErrUnauthorized = errors.New("backend rejected the admin token")

// StatusError is returned when the envelope status is not the expected one.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.Status)
}

// Message returns the text shown to the admin for a failed call.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Your session with the server has expired"
	}
	return "Something went wrong, please try again"
}
