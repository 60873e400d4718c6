package upstream

import (
	"errors"
	"fmt"
)

// Common errors returned by upstream clients.
var (
	// ErrNotFound indicates the upstream service has no such record.
	ErrNotFound = errors.New("not found upstream")

	// ErrRateLimited indicates the upstream service refused the request with 429.
	ErrRateLimited = errors.New("upstream rate limit exceeded")

	// ErrNetworkError indicates the request never produced an HTTP response.
	ErrNetworkError = errors.New("network error communicating with upstream")

	// ErrInvalidResponse indicates a response body that is not the expected JSON.
	ErrInvalidResponse = errors.New("invalid response from upstream")
)

// APIError represents a non-2xx response from an upstream service.
type APIError struct {
	Service    string
	StatusCode int
	Path       string
	Message    string // First part of the response body, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d, path %s): %s", e.Service, e.StatusCode, e.Path, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d, path %s)", e.Service, e.StatusCode, e.Path)
}

// IsNotFound returns true if the error indicates a record was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// IsUpstream returns true if the error originated from talking to an upstream
// service, as opposed to caller input or local failures.
func IsUpstream(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrNetworkError) ||
		errors.Is(err, ErrInvalidResponse)
}
