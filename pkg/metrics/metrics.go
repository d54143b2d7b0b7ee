// Package metrics provides the Prometheus registry shared by the scraper.
// All metrics are defined in their respective packages (client, cache,
// aggregator) to keep them next to the code that updates them.
//
// A scrape is a batch job, so instead of serving /metrics the collected
// values can be written once at exit to a node_exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registerer all packages register with via promauto.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what was registered with Registry.
var Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes the current value of every registered metric to path
// in the text exposition format.
func WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - rmp_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status ("cached" for cache hits)
//   - rmp_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - rmp_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - rmp_retries_total{error_class} (Counter): Retry attempts by error class
//   - rmp_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - rmp_cache_hits_total (Counter): Responses served from Redis
//   - rmp_cache_misses_total (Counter): Cache misses
//   - rmp_cache_stored_bytes_total (Counter): Bytes written to the cache
//   - rmp_cache_rejected_total (Counter): Responses not cached because they failed validation
//   - rmp_cache_errors_total{operation} (Counter): Cache operation errors
//
// Aggregation Metrics (pkg/aggregator):
//   - rmp_professors_fetched_total (Counter): Professor rows collected
//   - rmp_reviews_fetched_total (Counter): Review rows collected
//   - rmp_professors_skipped_total (Counter): Professors skipped because their ratings could not be fetched
//   - rmp_pages_fetched_total{phase} (Counter): Pages fetched per phase (professors, reviews)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rmp_cache_hits_total) /
//   (sum(rmp_cache_hits_total) + sum(rmp_cache_misses_total))
//
//   # Share of professors skipped in the last run
//   rmp_professors_skipped_total / rmp_professors_fetched_total
//
//   # Average reviews per ratings page
//   rmp_reviews_fetched_total / rmp_pages_fetched_total{phase="reviews"}
