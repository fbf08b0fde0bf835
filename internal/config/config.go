// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Remote store backends.
const (
	// RemoteModeHTTP talks to a hosted row-store/auth/storage service over
	// its REST API.
	RemoteModeHTTP = "http"
	// RemoteModePostgres talks to a PostgreSQL database directly and keeps
	// blobs on the local file system.
	RemoteModePostgres = "postgres"
)

// StructuredConfig is the top-level configuration container for the portal
// runtime. It is populated by merging values from environment variables,
// command-line flags, an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings: version, log file, the navigation
	// URL the portal was launched with and the baseline admin account.
	App App `envPrefix:"APP_"`

	// Remote selects and configures the remote store backend.
	Remote Remote `envPrefix:"REMOTE_"`

	// Mirror configures the on-disk local mirror.
	Mirror Mirror `envPrefix:"MIRROR_"`

	// Server holds the local HTTP API settings.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// Version is exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is where the runtime writes its JSON log. Empty means stdout.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// LaunchURL is the navigation URL the portal was opened with. A
	// password-recovery link suppresses session restoration at startup.
	// Env: APP_LAUNCH_URL
	LaunchURL string `env:"LAUNCH_URL"`

	// AdminEmail and AdminPassword describe the baseline administrator
	// ensured at startup. Both empty disables the bootstrap.
	// Env: APP_ADMIN_EMAIL, APP_ADMIN_PASSWORD
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// SkipSamples disables seeding sample catalog data on admin login.
	// Env: APP_SKIP_SAMPLES
	SkipSamples bool `env:"SKIP_SAMPLES"`
}

// Remote configures the remote store.
type Remote struct {
	// Mode is either "http" or "postgres".
	// Env: REMOTE_MODE
	Mode string `env:"MODE"`

	// URL is the base URL of the hosted service (http mode).
	// Env: REMOTE_URL
	URL string `env:"URL"`

	// APIKey is the public (anon) key sent with every request (http mode).
	// Env: REMOTE_API_KEY
	APIKey string `env:"API_KEY"`

	// ServiceKey authorizes admin auth calls and schema setup (http mode).
	// Optional; without it the admin bootstrap fails and is logged.
	// Env: REMOTE_SERVICE_KEY
	ServiceKey string `env:"SERVICE_KEY"`

	// RequestTimeout bounds a single outbound call. Zero means no timeout.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// DSN is the PostgreSQL connection string (postgres mode).
	// Env: REMOTE_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// TokenSignKey, TokenIssuer and TokenDuration control the session
	// tokens issued in postgres mode.
	// Env: REMOTE_TOKEN_SIGN_KEY, REMOTE_TOKEN_ISSUER, REMOTE_TOKEN_DURATION
	TokenSignKey  string        `env:"TOKEN_SIGN_KEY"`
	TokenIssuer   string        `env:"TOKEN_ISSUER"`
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// FilesDir is where blobs are stored in postgres mode.
	// Env: REMOTE_FILES_DIR
	FilesDir string `env:"FILES_DIR"`

	// PublicBaseURL prefixes public blob URLs in postgres mode.
	// Env: REMOTE_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Mirror configures the local mirror database.
type Mirror struct {
	// DSN is the SQLite data source. ":memory:" keeps the mirror in memory.
	// Env: MIRROR_DSN
	DSN string `env:"DSN"`

	// CacheSize is the number of mirror keys kept in the read cache.
	// Env: MIRROR_CACHE_SIZE
	CacheSize int `env:"CACHE_SIZE"`

	// CacheTTL bounds how long a cached mirror value is served.
	// Env: MIRROR_CACHE_TTL
	CacheTTL time.Duration `env:"CACHE_TTL"`
}

// Server holds settings for the local HTTP API.
type Server struct {
	// HTTPAddress is the listen address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the read/write timeout of the HTTP server.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AuthRateLimit is the sustained rate (requests per second) of login
	// and registration attempts; AuthRateBurst is the bucket size.
	// Env: SERVER_AUTH_RATE_LIMIT, SERVER_AUTH_RATE_BURST
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST"`
}

// GetStructuredConfig loads, merges and validates the configuration using
// the process environment and os.Args.
func GetStructuredConfig() (*StructuredConfig, error) {
	return Load(os.Args[1:])
}

// Load merges the configuration sources in the following priority order
// (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags from args
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func Load(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
