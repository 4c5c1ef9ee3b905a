// Package metrics provides the centralized Prometheus registry reference.
// All metrics are defined in their respective packages (client, cache,
// ratelimit) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by profilefetch.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - github_rate_limit_remaining (Gauge): Requests remaining in the current budget window
//   - github_rate_limit_waits_total (Counter): Requests delayed until the window reset
//   - github_rate_limit_wait_seconds (Histogram): Duration of waits imposed by the limiter
//
// Cache Metrics (pkg/cache):
//   - profilefetch_cache_hits_total (Counter): Cache hits
//   - profilefetch_cache_misses_total (Counter): Cache misses
//   - profilefetch_cache_errors_total{operation} (Counter): Cache store errors by operation
//   - profilefetch_cache_invalidations_total (Counter): Entries removed by invalidation
//
// Request Metrics (pkg/client):
//   - github_requests_total{status} (Counter): Total requests by HTTP status
//   - github_request_duration_seconds (Histogram): Request duration
//   - github_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, malformed)
//   - github_forced_resends_total (Counter): Resends after an exhausted-budget 403
//
// Retry Metrics (pkg/client):
//   - github_retries_total{error_class} (Counter): Retry attempts by error class
//   - github_retry_backoff_seconds (Histogram): Backoff duration before retries
//   - github_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(profilefetch_cache_hits_total[5m])) /
//   (sum(rate(profilefetch_cache_hits_total[5m])) + sum(rate(profilefetch_cache_misses_total[5m])))
//
//   # Budget Exhaustion Warning
//   github_rate_limit_remaining < 10
//
//   # Request Error Rate
//   rate(github_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(github_request_duration_seconds_bucket[5m]))
//
//   # Time Spent Waiting on the Budget
//   rate(github_rate_limit_wait_seconds_sum[5m])
