package completion

import (
	"fmt"
	"net/http"
)

// Kind classifies a completion-service failure.
type Kind int

const (
	// KindGeneric covers transport failures and unclassified statuses.
	KindGeneric Kind = iota
	// KindRateLimit means the service rejected the call with HTTP 429.
	KindRateLimit
	// KindAuth means the credentials were rejected (HTTP 401/403).
	// Auth failures are never retried.
	KindAuth
	// KindUnavailable means the service or model could not be reached
	// (HTTP 404/503).
	KindUnavailable
	// KindResponseParse means the service answered but the payload could not
	// be turned into the expected value (empty content, invalid JSON, schema
	// violation).
	KindResponseParse
	// KindStreaming means a failure occurred while consuming an SSE stream.
	KindStreaming
)

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRateLimit:
		return "rate_limit"
	case KindAuth:
		return "auth"
	case KindUnavailable:
		return "unavailable"
	case KindResponseParse:
		return "response_parse"
	case KindStreaming:
		return "streaming"
	default:
		return "generic"
	}
}

// Error is the typed failure returned by every completion call.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could succeed. Only
// authentication failures are permanently fatal.
func (e *Error) Retryable() bool {
	return e.Kind != KindAuth
}

// newError builds an *Error with a formatted message.
func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// classify maps an HTTP response (possibly nil on transport failure) and the
// underlying error to a typed Error.
func classify(res *http.Response, err error) *Error {
	if res == nil {
		return newError(KindGeneric, err, "request failed")
	}
	switch res.StatusCode {
	case http.StatusTooManyRequests:
		return newError(KindRateLimit, err, "rate limit exceeded (status %d)", res.StatusCode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return newError(KindAuth, err, "authentication failed (status %d)", res.StatusCode)
	case http.StatusNotFound, http.StatusServiceUnavailable:
		return newError(KindUnavailable, err, "service unavailable (status %d)", res.StatusCode)
	default:
		return newError(KindGeneric, err, "unexpected status %d", res.StatusCode)
	}
}
