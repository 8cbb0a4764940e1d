package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport failures: DNS, connect, timeout, cancellation
	ErrUnavailable = errors.New("storefront API unavailable")
	// ErrRequestFailed wraps non-2xx responses; the concrete error is *StatusError
	ErrRequestFailed = errors.New("storefront API request failed")
	// ErrInvalidResponse wraps bodies that cannot be decoded or are too large
	ErrInvalidResponse = errors.New("invalid response from storefront API")
)

// StatusError is a non-2xx response
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", ErrRequestFailed, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d %s", ErrRequestFailed, e.StatusCode, e.Message)
}

// Unwrap returns ErrRequestFailed
func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// Temporary reports whether retrying later may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
