// Package client provides the HTTP client used against the RateMyProfessors
// JSON endpoints, with retries, error classification, metrics and an optional
// Redis response cache.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/rmp-client/pkg/cache"
	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public RateMyProfessors site.
const DefaultBaseURL = "https://www.ratemyprofessors.com"

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client performs GET requests against the API.
type Client struct {
	http   *resty.Client
	cache  *cache.Manager
	config Config
	logger zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is prepended to every endpoint.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per HTTP attempt.
	Timeout time.Duration

	// Retry controls backoff for server, rate limit and network errors.
	Retry RetryConfig

	// Redis enables the response cache when non-nil.
	Redis *redis.Client

	// CacheTTL is how long successful responses stay cached.
	CacheTTL time.Duration
}

// DefaultConfig returns a configuration for the public site without caching.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "rmp-client/0.1.0",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
		CacheTTL:  6 * time.Hour,
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	logger := log.With().Str("component", "rmp-client").Logger()

	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetHeader("User-Agent", cfg.UserAgent)
	httpClient.SetHeader("Accept", "application/json")

	c := &Client{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}
	if cfg.Redis != nil && cfg.CacheTTL > 0 {
		c.cache = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return c, nil
}

// Get requests endpoint with query and returns the body of a 2xx response.
// Non-2xx responses are returned as *APIError.
//
// With the cache enabled, accept decides which bodies may be stored and
// served again. A body it rejects is still returned to the caller.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, accept ...cache.Validator) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	cacheKey := cache.CacheKey{
		Endpoint:    endpoint,
		QueryParams: query,
	}

	validator := allOf(accept)

	if c.cache != nil {
		body, err := c.cache.Lookup(ctx, cacheKey, validator)
		switch {
		case err == nil:
			c.logger.Debug().Str("endpoint", endpoint).Str("key", cacheKey.String()).Msg("Cache hit")
			requestsTotal.WithLabelValues(endpoint, "cached").Inc()
			return body, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", query.Encode()).
		Msg("Executing request")

	var body []byte
	err := retryWithBackoff(ctx, c.config.Retry, func() (ErrorClass, error) {
		resp, reqErr := c.http.R().
			SetContext(ctx).
			SetQueryParamsFromValues(query).
			Get(endpoint)

		if reqErr != nil {
			if ctx.Err() != nil {
				// Cancellation is not retried.
				return "", ctx.Err()
			}
			c.logger.Error().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return ErrorClassNetwork, &APIError{
				Endpoint:   endpoint,
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        reqErr,
			}
		}

		status := resp.StatusCode()
		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

		if status >= http.StatusBadRequest {
			errClass := classifyStatus(status)
			errorsTotal.WithLabelValues(string(errClass)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", status).
				Str("error_class", string(errClass)).
				Msg("Request error")

			return errClass, &APIError{
				Endpoint:   endpoint,
				StatusCode: status,
				ErrorClass: errClass,
				Message:    resp.Status(),
			}
		}

		body = resp.Body()
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		err := c.cache.Store(ctx, cacheKey, body, validator)
		switch {
		case errors.Is(err, cache.ErrNotCacheable):
			c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("Response not cached")
		case err != nil:
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	return body, nil
}

func allOf(accept []cache.Validator) cache.Validator {
	if len(accept) == 0 {
		return nil
	}
	return func(body []byte) error {
		for _, v := range accept {
			if err := v(body); err != nil {
				return err
			}
		}
		return nil
	}
}

// classifyStatus categorizes an HTTP error status.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// CacheEnabled reports whether responses are cached in Redis.
func (c *Client) CacheEnabled() bool {
	return c.cache != nil
}
