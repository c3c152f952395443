package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrTransport matches every failure that never produced an HTTP response:
	// unreachable host, refused connection, timeout, truncated body.
	ErrTransport = errors.New("gateway: transport failure")

	// ErrNotFound matches a 404 reported by the API.
	ErrNotFound = errors.New("gateway: not found")
)

// TransportError is returned when no usable response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// Timeout reports whether the attempt hit the request deadline.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ServerError is an error reported by the API itself: a non-2xx status or an
// envelope with success=false.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api responded %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api responded %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// errorBody covers the error shapes the API is known to return.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func newServerError(status int, body []byte) *ServerError {
	serverErr := &ServerError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return serverErr
	}
	serverErr.Message = eb.Message
	if serverErr.Message == "" && len(eb.Error) > 0 {
		var s string
		if json.Unmarshal(eb.Error, &s) == nil {
			serverErr.Message = s
		}
	}
	return serverErr
}

// Message returns the human-readable text shown to operators: the message the
// server reported when there is one, the per-operation fallback otherwise.
func Message(err error, fallback string) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return fallback
}
