package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func validHTTPConfig() *StructuredConfig {
	return &StructuredConfig{
		Remote: Remote{Mode: RemoteModeHTTP, URL: "https://example.test", APIKey: "anon"},
	}
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	_, err := newConfigBuilder().build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRemoteConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		validHTTPConfig(),
		&StructuredConfig{Remote: Remote{URL: "https://ignored.test", ServiceKey: "svc"}},
	)
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", cfg.Remote.URL)
	assert.Equal(t, "svc", cfg.Remote.ServiceKey)
	assert.Equal(t, defaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, defaultMirrorDSN, cfg.Mirror.DSN)
	assert.Zero(t, cfg.Remote.RequestTimeout, "no outbound timeout unless configured")
}

// ── withEnv ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("REMOTE_MODE", RemoteModePostgres)

	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, RemoteModePostgres, b.configs[0].Remote.Mode)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_InvalidFlagSetsError(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-no-such-flag"})
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.Remote.TokenIssuer = "json-issuer"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-version", b.configs[1].App.Version)
	assert.Equal(t, "json-issuer", b.configs[1].Remote.TokenIssuer)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nonexistent/config.json"})
	b.withJSON()

	assert.Error(t, b.err)
}

// ── Load ──────────────────────────────────────────────────────────────────────

func TestLoad_AllSources(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Remote.APIKey = "json-key"
	payload.Remote.URL = "https://json.test"
	payload.Mirror.CacheTTL = Duration(time.Minute)
	path := writeTempJSONConfig(t, payload)

	t.Setenv("REMOTE_URL", "https://env.test")

	cfg, err := Load([]string{"-c", path, "-a", "127.0.0.1:9000", "-remote-timeout", "3s"})
	require.NoError(t, err)

	assert.Equal(t, "https://env.test", cfg.Remote.URL)
	assert.Equal(t, "json-key", cfg.Remote.APIKey)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, 3*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Mirror.CacheTTL)
	assert.Equal(t, RemoteModeHTTP, cfg.Remote.Mode)
}

// ── validate ──────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *StructuredConfig)
		wantErr error
	}{
		{name: "valid http", mutate: func(c *StructuredConfig) {}},
		{
			name: "valid postgres",
			mutate: func(c *StructuredConfig) {
				c.Remote = Remote{Mode: RemoteModePostgres, DSN: "postgres://x", TokenSignKey: "k", FilesDir: "/tmp"}
			},
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *StructuredConfig) { c.Remote = Remote{Mode: RemoteModePostgres, TokenSignKey: "k", FilesDir: "/tmp"} },
			wantErr: ErrInvalidRemoteConfigs,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *StructuredConfig) { c.Remote.Mode = "grpc" },
			wantErr: ErrInvalidRemoteConfigs,
		},
		{
			name:    "empty mirror dsn",
			mutate:  func(c *StructuredConfig) { c.Mirror.DSN = "" },
			wantErr: ErrInvalidMirrorConfigs,
		},
		{
			name:    "zero auth rate",
			mutate:  func(c *StructuredConfig) { c.Server.AuthRateLimit = 0 },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "admin email without password",
			mutate:  func(c *StructuredConfig) { c.App.AdminEmail = "admin@example.test" },
			wantErr: ErrInvalidAppConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newConfigBuilder()
			b.configs = append(b.configs, validHTTPConfig())
			b.withDefaults()
			cfg, err := b.build()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPublicFilesURL(t *testing.T) {
	cfg := &StructuredConfig{Server: Server{HTTPAddress: "localhost:8080"}}
	assert.Equal(t, "http://localhost:8080/files", cfg.PublicFilesURL())

	cfg.Remote.PublicBaseURL = "https://cdn.example.test/files"
	assert.Equal(t, "https://cdn.example.test/files", cfg.PublicFilesURL())
}
