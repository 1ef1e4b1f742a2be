package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Git     GitConfig     `mapstructure:"git"`
	Logging LoggingConfig `mapstructure:"logging"`
	OTEL    OTELConfig    `mapstructure:"otel"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// APIConfig holds the scheme and domain used to build absolute resource links
type APIConfig struct {
	Scheme string `mapstructure:"scheme"`
	Domain string `mapstructure:"domain"`
}

// BaseURL returns scheme://domain without a trailing slash
func (a *APIConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s", a.Scheme, strings.TrimRight(a.Domain, "/"))
}

// GitConfig holds settings for the git command-line tool and the repository root
type GitConfig struct {
	Binary         string        `mapstructure:"binary"`
	ReposPath      string        `mapstructure:"repos_path"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	ArchivePath    string        `mapstructure:"archive_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Output   string `mapstructure:"output"` // console, file, otel
	Format   string `mapstructure:"format"` // json, console
	FilePath string `mapstructure:"file_path"`
}

// OTELConfig holds the OTLP log exporter configuration
type OTELConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	UseHTTP     bool   `mapstructure:"use_http"`
	ServiceName string `mapstructure:"service_name"`
}

// CORSConfig holds allowed origins for browser clients
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from file and environment variables.
// An explicit configPath must exist; otherwise the common locations are searched
// and a missing file falls back to defaults plus environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("GITAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gitapi")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("api.scheme", "https")
	v.SetDefault("api.domain", "localhost")

	v.SetDefault("git.binary", "git")
	v.SetDefault("git.repos_path", "/opt/git")
	v.SetDefault("git.command_timeout", 30*time.Second)
	v.SetDefault("git.archive_path", os.TempDir())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "console")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file_path", "./var/logs/app.log")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("otel.use_http", false)
	v.SetDefault("otel.service_name", "gitapi")

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// overrideFromEnv honours the environment names used by earlier deployments
func overrideFromEnv(v *viper.Viper) {
	if p := os.Getenv("GIT_REPOS_PATH"); p != "" {
		v.Set("git.repos_path", p)
	}
	if s := os.Getenv("GIT_SCHEME"); s != "" {
		v.Set("api.scheme", s)
	}
	if d := os.Getenv("GIT_DOMAIN"); d != "" {
		v.Set("api.domain", d)
	}

	// ENV=prod selects release mode and error-level logging, anything else debug
	if env := os.Getenv("ENV"); env != "" {
		if env == "prod" {
			v.Set("server.mode", "release")
			v.Set("logging.level", "error")
		} else {
			v.Set("server.mode", "debug")
			v.Set("logging.level", "debug")
		}
	}

	if debug := os.Getenv("DEBUG"); debug != "" && debug != "0" && debug != "false" {
		v.Set("logging.level", "debug")
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %s", c.Server.Mode)
	}

	if c.API.Scheme != "http" && c.API.Scheme != "https" {
		return fmt.Errorf("invalid api scheme: %s", c.API.Scheme)
	}
	if c.API.Domain == "" {
		return fmt.Errorf("api domain is required")
	}

	if c.Git.Binary == "" {
		return fmt.Errorf("git binary is required")
	}
	if c.Git.ReposPath == "" {
		return fmt.Errorf("git repos path is required")
	}
	if c.Git.CommandTimeout < 0 {
		return fmt.Errorf("invalid git command timeout: %s", c.Git.CommandTimeout)
	}
	if c.Git.ArchivePath == "" {
		return fmt.Errorf("git archive path is required")
	}

	switch c.Logging.Output {
	case "console", "file", "otel":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}
	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for file output")
	}
	if c.Logging.Output == "otel" && c.OTEL.Endpoint == "" {
		return fmt.Errorf("otel endpoint is required for otel output")
	}

	return nil
}

// ServerAddress returns the HTTP server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug"
}
