package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Backend kinds.
const (
	BackendOsascript = "osascript"
	BackendRemote    = "remote"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" yaml:"port"`
	Host            string        `envconfig:"HOST" yaml:"host"`
	BasePath        string        `envconfig:"BASE_PATH" yaml:"base_path"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
	CompressMinSize int           `envconfig:"COMPRESS_MIN_SIZE" yaml:"compress_min_size"`
}

// BackendConfig selects and tunes the automation backend.
type BackendConfig struct {
	Kind              string        `envconfig:"BACKEND" yaml:"kind"`
	OsascriptPath     string        `envconfig:"OSASCRIPT_PATH" yaml:"osascript_path"`
	ScreencapturePath string        `envconfig:"SCREENCAPTURE_PATH" yaml:"screencapture_path"`
	RemoteURL         string        `envconfig:"REMOTE_URL" yaml:"remote_url"`
	RemoteRetries     int           `envconfig:"REMOTE_RETRIES" yaml:"remote_retries"`
	QueueSize         int           `envconfig:"QUEUE_SIZE" yaml:"queue_size"`
	CommandTimeout    time.Duration `envconfig:"COMMAND_TIMEOUT" yaml:"command_timeout"`
	ProbeTimeout      time.Duration `envconfig:"PROBE_TIMEOUT" yaml:"probe_timeout"`
	BreakerFailures   int           `envconfig:"BREAKER_FAILURES" yaml:"breaker_failures"`
	BreakerCooldown   time.Duration `envconfig:"BREAKER_COOLDOWN" yaml:"breaker_cooldown"`
}

// SessionConfig holds defaults applied to new sessions.
type SessionConfig struct {
	DefaultApp         string        `envconfig:"DEFAULT_APP" yaml:"default_app"`
	MaxSessions        int           `envconfig:"MAX_SESSIONS" yaml:"max_sessions"`
	ScriptTimeout      time.Duration `envconfig:"SCRIPT_TIMEOUT" yaml:"script_timeout"`
	AsyncScriptTimeout time.Duration `envconfig:"ASYNC_SCRIPT_TIMEOUT" yaml:"async_script_timeout"`
	ImplicitWait       time.Duration `envconfig:"IMPLICIT_WAIT" yaml:"implicit_wait"`
	PageLoadTimeout    time.Duration `envconfig:"PAGE_LOAD_TIMEOUT" yaml:"page_load_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" yaml:"enabled"`
	Path    string `envconfig:"METRICS_PATH" yaml:"path"`
}

// Load builds configuration from defaults, the YAML file at path (skipped
// when empty), then environment variables. Later sources win. The result is
// not validated; apply any remaining overrides, then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendOsascript:
	case BackendRemote:
		if c.Backend.RemoteURL == "" {
			return fmt.Errorf("backend %q requires REMOTE_URL", BackendRemote)
		}
	default:
		return fmt.Errorf("unknown backend kind %q", c.Backend.Kind)
	}
	if c.Backend.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive, got %d", c.Backend.QueueSize)
	}
	if c.Backend.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive, got %s", c.Backend.CommandTimeout)
	}
	if c.Session.MaxSessions < 0 {
		return fmt.Errorf("max sessions must not be negative, got %d", c.Session.MaxSessions)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "4622",
			Host:            "127.0.0.1",
			BasePath:        "/wd/hub",
			ShutdownTimeout: 10 * time.Second,
			CompressMinSize: 1024,
		},
		Backend: BackendConfig{
			Kind:              BackendOsascript,
			OsascriptPath:     "/usr/bin/osascript",
			ScreencapturePath: "/usr/sbin/screencapture",
			RemoteRetries:     2,
			QueueSize:         64,
			CommandTimeout:    60 * time.Second,
			ProbeTimeout:      5 * time.Second,
			BreakerFailures:   5,
			BreakerCooldown:   30 * time.Second,
		},
		Session: SessionConfig{
			DefaultApp:         "Finder",
			MaxSessions:        0,
			ScriptTimeout:      30 * time.Second,
			AsyncScriptTimeout: 30 * time.Second,
			ImplicitWait:       0,
			PageLoadTimeout:    300 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
