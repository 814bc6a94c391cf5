package catalog

import (
	"errors"
	"fmt"
)

// User-facing messages. Raw API or network text is logged, never shown.
const (
	GenericErrorMessage = "Error fetching movies. Please try again later."
	RemoteErrorMessage  = "Failed to fetch movies"
)

// TransportError wraps network level failures (DNS, refused, timeouts).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-success HTTP status.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// RemoteError is a success-shaped payload that reports a logical failure.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Message) }

// UserMessage maps any catalog failure to a generic user-facing string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return RemoteErrorMessage
	}
	return GenericErrorMessage
}
