package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts responses served from Redis.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_hits_total",
			Help: "Total number of RMP response cache hits",
		},
	)

	// CacheMisses counts lookups that fell through to the API.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_misses_total",
			Help: "Total number of RMP response cache misses",
		},
	)

	// CacheStoredBytes counts bytes written to Redis.
	CacheStoredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_stored_bytes_total",
			Help: "Total bytes of RMP responses written to the cache",
		},
	)

	// CacheRejected counts responses refused by validation.
	CacheRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_rejected_total",
			Help: "Total number of RMP responses not cached because they failed validation",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmp_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
