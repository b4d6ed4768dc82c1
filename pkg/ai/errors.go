package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a provider failure so callers can decide between
// retrying, advancing to another provider, or giving up, without matching on
// provider error text.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindThrottled
	ErrorKindAccessDenied
	ErrorKindInvalidRequest
)

// String returns the symbolic name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindThrottled:
		return "THROTTLED"
	case ErrorKindAccessDenied:
		return "ACCESS_DENIED"
	case ErrorKindInvalidRequest:
		return "INVALID_REQUEST"
	default:
		return "UNKNOWN"
	}
}

// ProviderError wraps a failure from an external AI provider with its
// classification and the HTTP status that produced it (0 when not HTTP).
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Err      error
}

// Error implements error interface
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind.String(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind.String())
}

// Unwrap exposes the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from an error chain. Errors that did not
// come from a provider adapter are ErrorKindUnknown.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrorKindUnknown
}

// classifyStatus maps an HTTP response status to an error kind.
func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return ErrorKindThrottled
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorKindAccessDenied
	case http.StatusBadRequest, http.StatusNotFound,
		http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return ErrorKindInvalidRequest
	default:
		return ErrorKindUnknown
	}
}
