package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	e := &APIError{StatusCode: 502, Class: ErrorClassServer, Message: "502 Bad Gateway"}
	want := "github server error (status 502): 502 Bad Gateway"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}

	wrapped := &APIError{StatusCode: 0, Class: ErrorClassNetwork, Message: "http request", Err: errors.New("dial tcp: refused")}
	if got := wrapped.Error(); got != "github network error (status 0): http request: dial tcp: refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("underlying")
	e := &APIError{Class: ErrorClassNetwork, Err: inner}

	if !errors.Is(e, inner) {
		t.Error("errors.Is should reach the wrapped error")
	}

	var target *APIError
	chain := fmt.Errorf("fetch user: %w", e)
	if !errors.As(chain, &target) || target.Class != ErrorClassNetwork {
		t.Error("errors.As should recover the APIError through wrapping")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &APIError{Class: ErrorClassServer}, true},
		{"network error", &APIError{Class: ErrorClassNetwork}, true},
		{"client error", &APIError{Class: ErrorClassClient}, false},
		{"rate limit", &APIError{Class: ErrorClassRateLimit}, false},
		{"malformed", &APIError{Class: ErrorClassMalformed}, false},
		{"not found sentinel", ErrNotFound, false},
		{"plain error", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
