package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oaschangelog/changelog"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Input limits.
	MaxInlineSize   int64
	MaxVersions     int
	AllowPrivateIPs bool

	// Route list pagination.
	RouteLimit int
	MaxLimit   int

	// Changelog tool defaults.
	ChangelogConcurrency int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASCHANGELOG_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:         envBool("OASCHANGELOG_CACHE_ENABLED", true),
		CacheMaxSize:         envInt("OASCHANGELOG_CACHE_MAX_SIZE", 10),
		CacheFileTTL:         envDuration("OASCHANGELOG_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:          envDuration("OASCHANGELOG_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:      envDuration("OASCHANGELOG_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval:   envDuration("OASCHANGELOG_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:        envInt64("OASCHANGELOG_MAX_INLINE_SIZE", 10*1024*1024),
		MaxVersions:          envInt("OASCHANGELOG_MAX_VERSIONS", 20),
		AllowPrivateIPs:      envBool("OASCHANGELOG_ALLOW_PRIVATE_IPS", false),
		RouteLimit:           envInt("OASCHANGELOG_ROUTE_LIMIT", 100),
		MaxLimit:             envInt("OASCHANGELOG_MAX_LIMIT", 1000),
		ChangelogConcurrency: envInt("OASCHANGELOG_CHANGELOG_CONCURRENCY", changelog.DefaultConcurrency),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
