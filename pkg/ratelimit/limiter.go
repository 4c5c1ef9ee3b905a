package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for budget tracking.
var (
	budgetRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "github_rate_limit_remaining",
		Help: "Requests remaining in the current GitHub rate limit window",
	})

	budgetWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "github_rate_limit_waits_total",
		Help: "Total number of requests delayed until the budget window reset",
	})

	budgetWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "github_rate_limit_wait_seconds",
		Help:    "Duration of waits imposed by the rate limiter",
		Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300, 900, 3600},
	})
)

// Limiter serializes access to the shared request budget. All state reads,
// updates and blocking waits go through one mutex so concurrent callers
// never under-count the budget.
//
// The zero value is not usable; construct with NewLimiter.
type Limiter struct {
	mu          sync.Mutex
	state       State
	lastRequest time.Time
	logger      zerolog.Logger

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiter creates a limiter with a full default budget.
func NewLimiter(logger zerolog.Logger) *Limiter {
	return &Limiter{
		state:  DefaultState(),
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// State returns a copy of the current budget snapshot.
func (l *Limiter) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Observe replaces the budget state from response headers. Absent headers
// leave the corresponding field unchanged; unparseable values are ignored
// the same way.
func (l *Limiter) Observe(headers http.Header) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := intHeader(headers, "X-RateLimit-Remaining"); ok {
		l.state.Remaining = v
	}
	if v, ok := intHeader(headers, "X-RateLimit-Reset"); ok {
		l.state.ResetAt = time.Unix(int64(v), 0)
	}
	if v, ok := intHeader(headers, "X-RateLimit-Limit"); ok {
		l.state.Limit = v
	}
	if v, ok := intHeader(headers, "X-RateLimit-Used"); ok {
		l.state.Used = v
	}

	budgetRemaining.Set(float64(l.state.Remaining))

	evt := l.logger.Debug()
	if l.state.NearExhaustion() {
		evt = l.logger.Warn()
	}
	evt.
		Int("remaining", l.state.Remaining).
		Int("used", l.state.Used).
		Time("reset_at", l.state.ResetAt).
		Msg("Rate limit state updated")
}

// BeforeRequest blocks until a request may be issued. It enforces the
// minimum inter-request spacing and, when the remaining budget is at or
// below the safety threshold, waits until the window reset. The wait is
// bounded by (reset - now) + grace; a reset in the past means no wait.
// The only error returned is the context's, when cancelled mid-wait.
func (l *Limiter) BeforeRequest(ctx context.Context) error {
	l.mu.Lock()

	now := l.now()
	grantAt := now
	if !l.lastRequest.IsZero() {
		if next := l.lastRequest.Add(MinRequestInterval); next.After(grantAt) {
			grantAt = next
		}
	}

	if l.state.NearExhaustion() {
		if resetWait := l.state.WaitUntilReset(now); resetWait > 0 {
			if resumeAt := now.Add(resetWait); resumeAt.After(grantAt) {
				grantAt = resumeAt
			}
			l.logger.Warn().
				Int("remaining", l.state.Remaining).
				Dur("wait", resetWait).
				Msg("Request budget near exhaustion - waiting for reset")
			budgetWaitsTotal.Inc()
		}
	}

	// Reserve the slot before unlocking: concurrent callers space
	// themselves off this grant instead of a stale lastRequest. A
	// cancelled wait leaves the slot consumed.
	l.lastRequest = grantAt
	wait := grantAt.Sub(now)

	l.mu.Unlock()

	if wait > 0 {
		budgetWaitSeconds.Observe(wait.Seconds())
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

// WaitForReset blocks until the budget window has reset. Used by the
// transport after a 403 that reports budget exhaustion.
func (l *Limiter) WaitForReset(ctx context.Context) error {
	l.mu.Lock()
	wait := l.state.WaitUntilReset(l.now())
	l.mu.Unlock()

	if wait <= 0 {
		return ctx.Err()
	}

	l.logger.Warn().
		Dur("wait", wait).
		Msg("Request budget exhausted - waiting for reset")
	budgetWaitsTotal.Inc()
	budgetWaitSeconds.Observe(wait.Seconds())

	return l.sleep(ctx, wait)
}

// intHeader parses a non-negative integer header value.
func intHeader(headers http.Header, name string) (int, bool) {
	v := headers.Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
