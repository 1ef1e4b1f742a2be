package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the legacy variables honoured by Load
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ENV", "DEBUG", "GIT_REPOS_PATH", "GIT_SCHEME", "GIT_DOMAIN", "GITAPI_SERVER_PORT", "GITAPI_GIT_REPOS_PATH"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "/opt/git", cfg.Git.ReposPath)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, 30*time.Second, cfg.Git.CommandTimeout)
	assert.Equal(t, "https://localhost", cfg.API.BaseURL())
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
server:
  port: 9090
  mode: debug
api:
  scheme: http
  domain: git.example.com/
git:
  repos_path: /srv/git
  command_timeout: 5s
cors:
  allowed_origins:
    - https://app.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "http://git.example.com", cfg.API.BaseURL())
	assert.Equal(t, "/srv/git", cfg.Git.ReposPath)
	assert.Equal(t, 5*time.Second, cfg.Git.CommandTimeout)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("GIT_REPOS_PATH", "/data/repos")
	t.Setenv("GIT_SCHEME", "http")
	t.Setenv("GIT_DOMAIN", "code.internal")
	t.Setenv("ENV", "prod")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/repos", cfg.Git.ReposPath)
	assert.Equal(t, "http://code.internal", cfg.API.BaseURL())
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_NonProdEnvironmentIsDebug(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "staging")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DebugFlag(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DEBUG", "1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GITAPI_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080, Mode: "release"},
			API:     APIConfig{Scheme: "https", Domain: "localhost"},
			Git:     GitConfig{Binary: "git", ReposPath: "/opt/git", ArchivePath: "/tmp"},
			Logging: LoggingConfig{Output: "console"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"scheme", func(c *Config) { c.API.Scheme = "ftp" }},
		{"domain", func(c *Config) { c.API.Domain = "" }},
		{"repos path", func(c *Config) { c.Git.ReposPath = "" }},
		{"timeout", func(c *Config) { c.Git.CommandTimeout = -time.Second }},
		{"output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"file output without path", func(c *Config) { c.Logging.Output = "file" }},
		{"otel output without endpoint", func(c *Config) { c.Logging.Output = "otel" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
