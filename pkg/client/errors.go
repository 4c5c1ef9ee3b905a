package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrNotFound is returned for 404 responses. Resource absence is an
	// expected outcome, not a failure.
	ErrNotFound = errors.New("resource not found")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrRateLimitResend is returned when the forced-resend budget for
	// exhausted-rate-limit 403 responses is used up.
	ErrRateLimitResend = errors.New("rate limit resend budget exceeded")

	// ErrContextCancelled is returned when the context is cancelled during
	// a wait or retry backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents non-404 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 403 responses reporting an exhausted
	// request budget.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassMalformed represents responses whose body could not be
	// parsed as JSON.
	ErrorClassMalformed ErrorClass = "malformed"
)

// APIError represents a failed request with its classification.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("github %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// retryable reports whether a failed attempt should be retried.
// Server and network failures are transient; everything else is terminal
// for the retry loop.
func retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Class {
	case ErrorClassServer, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
