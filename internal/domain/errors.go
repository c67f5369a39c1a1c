package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing signals that a collaborator's coordinates are absent.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrUpstream signals a non-success response from an external service.
	ErrUpstream = errors.New("upstream error")
	// ErrRateLimited signals provider-side throttling.
	ErrRateLimited = errors.New("rate limited")
	// ErrMalformedResponse signals an unparseable reply from an external service.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals an invalid client-supplied value.
	ErrValidation = errors.New("validation failed")
)

// UpstreamError wraps ErrUpstream with the status and body returned by the service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s returned %d: %s", ErrUpstream.Error(), e.Service, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// RateLimitError wraps ErrRateLimited with an optional retry hint.
// RetryAfterSeconds is 0 when the provider gave no parseable hint.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfterSeconds > 0 {
		return fmt.Sprintf("%s: retry after %d seconds", ErrRateLimited.Error(), e.RetryAfterSeconds)
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// NewRateLimitError creates a rate limit error.
func NewRateLimitError(retryAfterSeconds int) error {
	return &RateLimitError{RetryAfterSeconds: retryAfterSeconds}
}
