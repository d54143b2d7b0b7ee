// Package cache stores RateMyProfessors API responses in Redis.
//
// Listing and ratings pages change slowly, so repeated scrapes of the same
// school can be served from Redis instead of hitting the site again. Entries
// are keyed by endpoint and the sorted query string and expire after the
// manager's TTL.
//
// Bodies are validated before they are stored and again when they are read
// back: an empty or non-object body, or one the caller's Validator rejects,
// is never served from the cache.
//
// # Basic Usage
//
//	manager := cache.NewManager(redis.NewClient(&redis.Options{Addr: "localhost:6379"}), time.Hour)
//
//	key := cache.CacheKey{
//		Endpoint:    "/paginate/professors/ratings",
//		QueryParams: url.Values{"tid": {"12345"}, "page": {"1"}},
//	}
//
//	body, err := manager.Lookup(ctx, key, nil)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch, then:
//		_ = manager.Store(ctx, key, body, nil)
//	}
//
// # Metrics
//
//   - rmp_cache_hits_total
//   - rmp_cache_misses_total
//   - rmp_cache_stored_bytes_total
//   - rmp_cache_rejected_total
//   - rmp_cache_errors_total{operation}
package cache
