// Package config reads scraper settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/rmp-client/pkg/client"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvBaseURL     = "RMP_BASE_URL"
	EnvUserAgent   = "RMP_USER_AGENT"
	EnvRedisAddr   = "RMP_REDIS_ADDR"
	EnvCacheTTL    = "RMP_CACHE_TTL"
	EnvOutDir      = "RMP_OUT_DIR"
	EnvFormat      = "RMP_FORMAT"
	EnvMetricsFile = "RMP_METRICS_FILE"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogPretty   = "LOG_PRETTY"
)

// Config is the resolved scraper configuration. Command line flags override
// the values read here.
type Config struct {
	BaseURL     string
	UserAgent   string
	RedisAddr   string
	CacheTTL    time.Duration
	OutDir      string
	Format      string
	MetricsFile string
	LogLevel    string
	LogPretty   bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	defaults := client.DefaultConfig()
	return Config{
		BaseURL:   defaults.BaseURL,
		UserAgent: defaults.UserAgent,
		CacheTTL:  defaults.CacheTTL,
		OutDir:    ".",
		Format:    "csv",
		LogLevel:  "info",
	}
}

// LoadDotEnv loads variables from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv overlays environment variables on Default.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.BaseURL = getEnv(EnvBaseURL, cfg.BaseURL)
	cfg.UserAgent = getEnv(EnvUserAgent, cfg.UserAgent)
	cfg.RedisAddr = getEnv(EnvRedisAddr, cfg.RedisAddr)
	cfg.OutDir = getEnv(EnvOutDir, cfg.OutDir)
	cfg.Format = getEnv(EnvFormat, cfg.Format)
	cfg.MetricsFile = getEnv(EnvMetricsFile, cfg.MetricsFile)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)

	if v := os.Getenv(EnvCacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
		cfg.CacheTTL = ttl
	}

	if v := os.Getenv(EnvLogPretty); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogPretty, err)
		}
		cfg.LogPretty = pretty
	}

	return cfg, nil
}

// ClientConfig converts cfg into a client configuration. The Redis client is
// created by the caller.
func (c Config) ClientConfig() client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = c.BaseURL
	cc.UserAgent = c.UserAgent
	cc.CacheTTL = c.CacheTTL
	return cc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
