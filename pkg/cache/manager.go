package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")

	// ErrNotCacheable is returned by Store for bodies that would not decode
	// as an API page.
	ErrNotCacheable = errors.New("response not cacheable")
)

// Validator reports whether a response body is a usable API page.
type Validator func(body []byte) error

// JSONObject accepts bodies that look like a JSON object. It is applied to
// every body before any caller supplied Validator.
func JSONObject(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrNotCacheable)
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("%w: body is not a JSON object", ErrNotCacheable)
	}
	return nil
}

// Manager keeps RMP response bodies in Redis for a fixed TTL. Only bodies
// that pass validation are stored or served, so an empty or garbled answer
// is never replayed on a later run.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a manager that stores bodies for ttl. A ttl of zero or
// less turns Store into a no-op.
func NewManager(redisClient *redis.Client, ttl time.Duration) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{
		redis: redisClient,
		ttl:   ttl,
	}
}

// TTL returns how long stored bodies stay valid.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Lookup returns the cached body for key. An entry that has expired or no
// longer passes accept is removed and reported as ErrCacheMiss.
func (m *Manager) Lookup(ctx context.Context, key CacheKey, accept Validator) ([]byte, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	case err != nil:
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() || validate(entry.Data, accept) != nil {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.Inc()
	return entry.Data, nil
}

// Store caches body under key for the manager's TTL. Bodies rejected by
// JSONObject or accept are not written and ErrNotCacheable is returned.
func (m *Manager) Store(ctx context.Context, key CacheKey, body []byte, accept Validator) error {
	if m.ttl <= 0 {
		return nil
	}
	if err := validate(body, accept); err != nil {
		CacheRejected.Inc()
		return err
	}

	data, err := json.Marshal(NewEntry(body, http.StatusOK, m.ttl))
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, key.String(), data, m.ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheStoredBytes.Add(float64(len(data)))
	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func validate(body []byte, accept Validator) error {
	if err := JSONObject(body); err != nil {
		return err
	}
	if accept == nil {
		return nil
	}
	if err := accept(body); err != nil {
		return fmt.Errorf("%w: %w", ErrNotCacheable, err)
	}
	return nil
}
