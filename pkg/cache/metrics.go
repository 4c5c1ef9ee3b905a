package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks read-through hits.
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilefetch_cache_hits_total",
			Help: "Total cache hits",
		},
	)

	// cacheMisses tracks read-through misses.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilefetch_cache_misses_total",
			Help: "Total cache misses",
		},
	)

	// cacheErrors tracks store operation failures by operation.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profilefetch_cache_errors_total",
			Help: "Total cache store errors by operation",
		},
		[]string{"operation"},
	)

	// cacheInvalidations tracks entries removed by predicate invalidation.
	cacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilefetch_cache_invalidations_total",
			Help: "Total entries removed by invalidation",
		},
	)
)
