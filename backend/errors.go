package backend

import (
	"errors"
	"fmt"
)

// ConnectivityMessage is shown to the user for any transport failure
const ConnectivityMessage = "Unable to reach the research service. Please check your connection and try again."

// BackendError is a failure reported by the backend itself: a non-2xx
// status, or a 2xx body carrying an "error" field. Message is shown to the
// user verbatim
type BackendError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, e.Message)
}

// TransportError covers everything between us and a usable reply:
// connection failures, timeouts, unreadable bodies and malformed JSON
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to display for err
func UserMessage(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return ConnectivityMessage
	}
	return err.Error()
}
