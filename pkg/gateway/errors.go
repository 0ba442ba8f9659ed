package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrHTTPStatus marks a non-2xx response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrDecode marks a response body that could not be decoded.
	ErrDecode = errors.New("malformed response")
)

// FetchError describes a failed backend call. Status is 0 when no response
// was received.
type FetchError struct {
	Endpoint string
	Status   int
	Cause    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Endpoint, e.Status, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
