// Package config loads application settings from .env and the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"portfolio_backend/internal/platform/logger"
)

const (
	defaultPort            = "8080"
	defaultRefreshInterval = 60 * time.Second
	defaultQuoteTimeout    = 2 * time.Second
	defaultCacheTTL        = 5 * time.Minute
)

// Config holds application configuration.
type Config struct {
	Env  string
	Port string

	RefreshInterval time.Duration // REFRESH_INTERVAL_MS
	QuoteTimeout    time.Duration // Bound on a request-path oracle call
	SeedSampleData  bool

	CORSAllowedOrigins []string
	CacheTTL           time.Duration
}

// LoadDotEnv loads .env when present. Existing variables win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Get().Warnw("failed to load .env", "error", err)
	}
}

// Load reads configuration from environment variables.
// Invalid values fall back to defaults with a warning.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", defaultPort),
		RefreshInterval:    getMillis("REFRESH_INTERVAL_MS", defaultRefreshInterval),
		QuoteTimeout:       getDuration("QUOTE_TIMEOUT", defaultQuoteTimeout),
		SeedSampleData:     getBool("SEED_SAMPLE_DATA", false),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CacheTTL:           getDuration("CACHE_TTL", defaultCacheTTL),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getMillis(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		warnInvalid(key, raw, def)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		warnInvalid(key, raw, def)
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		warnInvalid(key, raw, def)
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func warnInvalid(key, raw string, def any) {
	logger.Get().Warnw("invalid config value, using default", "key", key, "value", raw, "default", def)
}
