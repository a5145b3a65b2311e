package completion

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when a completion holds nothing that looks
// like a SQL statement.
var ErrEmptyCompletion = errors.New("model returned no SQL statement")

// APIError reports a failed request to the completion provider: a non-2xx
// status, a transport failure, an undecodable body or a missing API key.
type APIError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion API error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("completion API error: %s", msg)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
