package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken means the auth endpoint answered 200 without an Authorization header.
	ErrNoToken = errors.New("authentication succeeded but no bearer token was returned")

	// ErrIncompleteDownload means the stream ended before the declared content length.
	ErrIncompleteDownload = errors.New("incomplete download")
)

// AuthenticationError is returned when POST /api/auth answers anything but 200.
type AuthenticationError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s: %s", e.Status, e.Body)
}

// RequestError is returned when an authenticated request answers anything but 200.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed: %s: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsUnauthorized reports whether err carries a 401 or 403 from the NVR.
func IsUnauthorized(err error) bool {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.StatusCode == 401 || authErr.StatusCode == 403
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 401 || reqErr.StatusCode == 403
	}
	return false
}
