// Package config loads the dashboard configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. PULLQUEST_PORT.
const Prefix = "PULLQUEST"

// Config is the container for app configuration.
type Config struct {
	// Port - listen port for the http server
	Port string `default:"8080"`

	// LogLevel - debug, info, warn or error
	LogLevel string `default:"info" split_words:"true"`

	// APIBaseURL - PullQuest backend address with protocol
	APIBaseURL string `default:"http://localhost:8000" envconfig:"API_BASE_URL"`

	// HTTPClientTimeout - timeout for a single outbound call
	HTTPClientTimeout time.Duration `default:"15s" envconfig:"HTTP_CLIENT_TIMEOUT"`

	// GitHubAPIAddress - GitHub REST api address with protocol
	GitHubAPIAddress string `default:"https://api.github.com" envconfig:"GITHUB_API_ADDRESS"`

	// GitHubAPIRateLimit - max frequency for GitHub REST api calls per second
	GitHubAPIRateLimit float64 `default:"5" envconfig:"GITHUB_API_RATE_LIMIT"`

	// GitHubCacheSize - maximum number of usernames kept in the repo cache
	GitHubCacheSize int `default:"1000" envconfig:"GITHUB_CACHE_SIZE"`

	// GitHubCacheTTL - maximum lifetime for repo cache entries
	GitHubCacheTTL time.Duration `default:"10m" envconfig:"GITHUB_CACHE_TTL"`

	// GitHubSnapshotPath - filepath for the bolt db holding repo snapshots
	GitHubSnapshotPath string `default:"./github.data" envconfig:"GITHUB_SNAPSHOT_PATH"`

	// GitHubSnapshotTTL - how old a snapshot may be and still be served
	GitHubSnapshotTTL time.Duration `default:"8h" envconfig:"GITHUB_SNAPSHOT_TTL"`

	// GitHubClientID, GitHubClientSecret, GitHubCallbackURL - OAuth app
	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `default:"http://localhost:8080/auth/github/callback" envconfig:"GITHUB_CALLBACK_URL"`

	// DBPath - filepath for the sqlite database
	DBPath string `default:"./dashboard.db" envconfig:"DB_PATH"`

	// JWTSecret - HMAC secret for session cookies, at least 16 characters
	JWTSecret string `envconfig:"JWT_SECRET"`

	// SessionTTL - lifetime of a login
	SessionTTL time.Duration `default:"24h" envconfig:"SESSION_TTL"`

	// SessionSweepInterval - how often expired sessions are purged
	SessionSweepInterval time.Duration `default:"15m" envconfig:"SESSION_SWEEP_INTERVAL"`

	// SecureCookies - set the Secure flag on cookies (HTTPS only)
	SecureCookies bool `default:"false" envconfig:"SECURE_COOKIES"`

	// ViewStateSize - maximum number of sessions with cached dashboard state
	ViewStateSize int `default:"10000" envconfig:"VIEW_STATE_SIZE"`

	// CORSAllowedOrigins - origins allowed to call /api
	CORSAllowedOrigins []string `default:"http://localhost:5173" envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Load reads the configuration from PULLQUEST_* variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as types.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL must not be empty"))
	}
	if c.GitHubAPIRateLimit <= 0 {
		errs = append(errs, errors.New("GITHUB_API_RATE_LIMIT must be greater than 0"))
	}
	if c.GitHubCacheSize <= 0 {
		errs = append(errs, errors.New("GITHUB_CACHE_SIZE must be greater than 0"))
	}
	if c.ViewStateSize <= 0 {
		errs = append(errs, errors.New("VIEW_STATE_SIZE must be greater than 0"))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be greater than 0"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// APIBase returns APIBaseURL without a trailing slash.
func (c *Config) APIBase() string {
	return strings.TrimRight(c.APIBaseURL, "/")
}

// ParseLevel maps a LogLevel string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
