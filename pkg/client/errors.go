package client

import (
	"fmt"

	"github.com/openfiles-ai/openfiles-go/pkg/pathutil"
)

// ErrInvalidPath is re-exported so callers can classify path rejections
// without importing pathutil.
var ErrInvalidPath = pathutil.ErrInvalidPath

// APIKeyError reports a malformed API key at construction time.
type APIKeyError struct {
	Message string
}

func (e *APIKeyError) Error() string { return "invalid API key format: " + e.Message }

// ValidationError reports a request rejected before or by the backend (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError reports a 401 or 403 from the backend.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.StatusCode, e.Message)
}

// NotFoundError reports a 404 for a file path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return "file not found: " + e.Path }

// ConflictError reports a 409, e.g. writing a path that already exists.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// RateLimitError reports a 429. RetryAfter is in seconds; the client never
// retries on its own.
type RateLimitError struct {
	Message    string
	RetryAfter int
}

func (e *RateLimitError) Error() string { return e.Message }

// NetworkError reports a transport-level failure before an HTTP status was
// received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports any other backend failure, including 5xx responses and
// structured error envelopes.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Operation  string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}
