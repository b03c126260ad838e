package providers

import (
	"errors"
	"fmt"
	"net"
)

// AuthError means the provider rejected our credential. Terminal; requires
// operator intervention, never retried.
type AuthError struct {
	Provider string
	Detail   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Provider, e.Detail)
}

// DataError means the request was well formed but the provider cannot
// resolve it (unreachable route, quota exhausted, malformed request).
// Terminal, never retried.
type DataError struct {
	Provider string
	Detail   string
	Quota    bool
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s data error: %s", e.Provider, e.Detail)
}

// StatusError is an HTTP-level failure that did not classify as auth or
// data. 5xx and 429 responses surface as StatusError and are retryable.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.Code, e.Body)
}

// Retryable reports whether err should be handed back to the workflow
// engine for another attempt. Auth and data errors are terminal; HTTP 5xx,
// 429, network errors, and anything unclassified default to retryable so
// unexpected failures are not silently dropped.
func Retryable(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var dataErr *DataError
	if errors.As(err, &dataErr) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == 429 || statusErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return true
}

// ClassifyHTTPStatus converts a non-2xx response into the matching typed
// error: 401/403 become AuthError, 429 and 5xx StatusError, remaining 4xx
// DataError.
func ClassifyHTTPStatus(provider string, code int, body string) error {
	switch {
	case code == 401 || code == 403:
		return &AuthError{Provider: provider, Detail: body}
	case code == 429 || code >= 500:
		return &StatusError{Provider: provider, Code: code, Body: body}
	default:
		return &DataError{Provider: provider, Detail: fmt.Sprintf("HTTP %d: %s", code, body)}
	}
}
