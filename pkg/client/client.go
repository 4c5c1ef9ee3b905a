// Package client provides the core GitHub HTTP transport with rate
// limiting, retries, and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/profilefetch/profilefetch/pkg/ratelimit"
)

// Prometheus metrics for transport operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_requests_total",
		Help: "Total GitHub requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "github_request_duration_seconds",
		Help:    "GitHub request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_errors_total",
		Help: "Total GitHub request errors by class",
	}, []string{"class"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "github_retry_backoff_seconds",
		Help:    "Backoff duration for retries",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})

	forcedResendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "github_forced_resends_total",
		Help: "Total number of resends after an exhausted-budget 403",
	})
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// Config holds the transport configuration.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string

	// Token, when set, is sent as a bearer Authorization header.
	Token string

	// UserAgent identifies this client to the API.
	UserAgent string

	// Timeout bounds each individual network call.
	Timeout time.Duration

	// Retry is the policy for transient failures.
	Retry Policy

	// MaxForcedResends caps how many times a single logical request may
	// be resent after a 403 that reports budget exhaustion. These resends
	// do not consume the retry budget but must themselves be bounded.
	MaxForcedResends int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		UserAgent:        "profilefetch/1.0",
		Timeout:          15 * time.Second,
		Retry:            DefaultPolicy(),
		MaxForcedResends: 1,
	}
}

// Response is the outcome of a successful request.
type Response struct {
	// StatusCode is the HTTP status of the final attempt.
	StatusCode int

	// Body is the raw JSON response body.
	Body []byte

	// NextURL is the rel="next" continuation URL, or "" on the last page.
	NextURL string
}

// Client issues single logical GET requests against the API, retrying
// transient failures and cooperating with the shared rate limiter.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	config     Config
	logger     zerolog.Logger

	// sleep is swappable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a transport sharing the given limiter.
func New(cfg Config, limiter *ratelimit.Limiter, logger zerolog.Logger) (*Client, error) {
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultPolicy()
	}
	if cfg.MaxForcedResends < 0 {
		cfg.MaxForcedResends = 0
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		config:  cfg,
		logger:  logger,
		sleep:   sleepContext,
	}, nil
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Get performs a GET request. Relative paths are resolved against the
// configured base URL.
//
// A 404 returns ErrNotFound. A 403 reporting budget exhaustion updates
// the limiter, waits out the reset window, and resends the same request
// once without consuming the retry budget; a second exhausted-budget 403
// is terminal. Timeouts, connection failures and 5xx are retried per the
// policy. Any other error status or a malformed body is terminal.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	url := rawURL
	if !strings.HasPrefix(url, "http") {
		url = c.config.BaseURL + url
	}

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	resends := 0
	for {
		resp, err := c.getWithRetry(ctx, url)
		if err == nil {
			return resp, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Class != ErrorClassRateLimit {
			return nil, err
		}

		// Exhausted budget: wait for the window reset and resend the same
		// request, bounded by the forced-resend cap.
		if resends >= c.config.MaxForcedResends {
			errorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
			c.logger.Error().
				Str("url", url).
				Int("resends", resends).
				Msg("Rate limit resend budget exceeded")
			return nil, fmt.Errorf("%w: %v", ErrRateLimitResend, err)
		}
		resends++
		forcedResendsTotal.Inc()

		c.logger.Warn().
			Str("url", url).
			Int("resend", resends).
			Msg("Request budget exhausted - waiting for reset before resend")

		if waitErr := c.limiter.WaitForReset(ctx); waitErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, waitErr)
		}
	}
}

// getWithRetry performs one logical request with transient-failure retries.
func (c *Client) getWithRetry(ctx context.Context, url string) (*Response, error) {
	var result *Response

	err := retryWithBackoff(ctx, c.config.Retry, c.logger, c.sleep, func() error {
		resp, err := c.attempt(ctx, url)
		if err != nil {
			return err
		}
		result = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// attempt performs a single network call and classifies the outcome.
func (c *Client) attempt(ctx context.Context, url string) (*Response, error) {
	if err := c.limiter.BeforeRequest(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextCancelled, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &APIError{Class: ErrorClassClient, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Warn().Err(err).Str("url", url).Msg("HTTP request failed")
		return nil, &APIError{Class: ErrorClassNetwork, Message: "http request", Err: err}
	}
	defer httpResp.Body.Close()

	c.limiter.Observe(httpResp.Header)

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	requestsTotal.WithLabelValues(fmt.Sprintf("%d", httpResp.StatusCode)).Inc()

	switch {
	case httpResp.StatusCode == http.StatusNotFound:
		c.logger.Debug().Str("url", url).Msg("Resource not found")
		return nil, ErrNotFound

	case httpResp.StatusCode == http.StatusForbidden && isBudgetExhausted(body):
		// Observe already captured the reset timestamp from the headers.
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      ErrorClassRateLimit,
			Message:    "request budget exhausted",
		}

	case httpResp.StatusCode >= 500:
		errorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
		c.logger.Warn().
			Str("url", url).
			Int("status", httpResp.StatusCode).
			Msg("Server error")
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      ErrorClassServer,
			Message:    httpResp.Status,
		}

	case httpResp.StatusCode >= 400:
		errorsTotal.WithLabelValues(string(ErrorClassClient)).Inc()
		c.logger.Warn().
			Str("url", url).
			Int("status", httpResp.StatusCode).
			Msg("Client error")
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      ErrorClassClient,
			Message:    httpResp.Status,
		}
	}

	if !json.Valid(body) {
		errorsTotal.WithLabelValues(string(ErrorClassMalformed)).Inc()
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      ErrorClassMalformed,
			Message:    "response body is not valid JSON",
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		NextURL:    nextLink(httpResp.Header),
	}, nil
}

// isBudgetExhausted reports whether a 403 body indicates rate limit
// exhaustion rather than a permission problem.
func isBudgetExhausted(body []byte) bool {
	return strings.Contains(strings.ToLower(string(body)), "rate limit")
}
