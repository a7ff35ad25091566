package ai

import (
	"context"
	"errors"
)

// Provider failure classes. Provider implementations wrap the underlying
// transport or API error with exactly one of these.
var (
	// ErrRateLimited indicates the provider rejected the request because of rate limiting.
	ErrRateLimited = errors.New("rate limited by embedding provider")

	// ErrProviderError indicates a transient provider failure (5xx, timeout, network).
	ErrProviderError = errors.New("embedding provider error")

	// ErrInvalidRequest indicates the provider rejected the request as invalid (4xx).
	ErrInvalidRequest = errors.New("invalid embedding request")

	// ErrMalformedResponse indicates the provider answered with an unusable body.
	ErrMalformedResponse = errors.New("malformed embedding response")
)

// IsRetryable reports whether err is worth another attempt.
// Rate limits, transient provider failures and per-attempt deadlines are
// retryable. Invalid requests, malformed responses and caller cancellation
// are not. Errors that carry no classification are treated as transient.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrMalformedResponse):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}
