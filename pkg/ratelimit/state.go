// Package ratelimit tracks the GitHub API request budget and gates
// outgoing requests. It consumes the X-RateLimit-Remaining, X-RateLimit-Reset,
// X-RateLimit-Limit and X-RateLimit-Used headers so that callers sharing
// one limiter never burn through the budget and trip a secondary block.
package ratelimit

import (
	"time"
)

// Thresholds and pacing constants for budget decisions.
const (
	// SafetyThreshold stops requests when the remaining budget falls to
	// this value or below. The limiter then waits out the reset window
	// instead of spending the last few requests.
	SafetyThreshold = 5

	// MinRequestInterval is the minimum spacing between consecutive
	// requests regardless of the remaining budget.
	MinRequestInterval = 100 * time.Millisecond

	// ResetGrace is added after the reported reset time before resuming,
	// covering clock skew between us and the API.
	ResetGrace = 1 * time.Second
)

// State is the most recent request-budget snapshot reported by the API.
// Fields are replaced wholesale from the freshest response headers seen;
// a missing header leaves the corresponding field unchanged.
type State struct {
	// Remaining is the number of requests left in the current window.
	// Extracted from the X-RateLimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is when the current window ends and the budget refills.
	// Extracted from the X-RateLimit-Reset header (epoch seconds).
	ResetAt time.Time `json:"reset_at"`

	// Limit is the total budget per window (X-RateLimit-Limit).
	Limit int `json:"limit"`

	// Used is the number of requests already spent (X-RateLimit-Used).
	Used int `json:"used"`
}

// DefaultState returns the state assumed before any response has been
// observed: a full unauthenticated budget with no pending reset.
func DefaultState() State {
	return State{
		Remaining: 60,
		Limit:     60,
	}
}

// NearExhaustion reports whether the remaining budget is at or below the
// safety threshold.
func (s State) NearExhaustion() bool {
	return s.Remaining <= SafetyThreshold
}

// WaitUntilReset returns how long to wait, from now, until the budget
// window has reset including the grace period. Returns 0 if the reset
// time has already passed or was never reported.
func (s State) WaitUntilReset(now time.Time) time.Duration {
	if s.ResetAt.IsZero() || !s.ResetAt.After(now) {
		return 0
	}
	return s.ResetAt.Sub(now) + ResetGrace
}
