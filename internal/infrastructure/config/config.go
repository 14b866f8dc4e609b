package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/shared/paths"
)

// Prefix is prepended to every environment variable name.
const Prefix = "WCAR"

// Config holds all application configuration.
type Config struct {
	Data      DataConfig
	Autosave  AutosaveConfig
	Log       LogConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig `split_words:"true"`
	Restore   RestoreConfig
}

// DataConfig locates persisted state.
type DataConfig struct {
	// Dir defaults to paths.DefaultDataDir when empty.
	Dir string `split_words:"true"`
	// AppsFile defaults to apps.yaml inside Dir when empty.
	AppsFile    string `split_words:"true"`
	HistoryKeep int    `split_words:"true" default:"20"`
}

// AutosaveConfig controls periodic capture in serve mode.
type AutosaveConfig struct {
	Enabled  bool          `split_words:"true" default:"true"`
	Interval time.Duration `split_words:"true" default:"5m"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `split_words:"true" default:"info"`
	Dev   bool   `split_words:"true" default:"false"`
}

// HTTPConfig holds control API server configuration.
type HTTPConfig struct {
	Host string `split_words:"true" default:"127.0.0.1"`
	Port int    `split_words:"true" default:"7420"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RPS     float64 `split_words:"true" default:"5"`
	Burst   int     `split_words:"true" default:"10"`
	Enabled bool    `split_words:"true" default:"true"`
}

// RestoreConfig holds restore timings.
type RestoreConfig struct {
	StabilizeTimeout  time.Duration `split_words:"true" default:"15s"`
	MainWindowTimeout time.Duration `split_words:"true" default:"5s"`
	Remap             bool          `split_words:"true" default:"true"`
}

// Load loads configuration from WCAR_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			HistoryKeep: 20,
		},
		Autosave: AutosaveConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		HTTP: HTTPConfig{
			Host: "127.0.0.1",
			Port: 7420,
		},
		RateLimit: RateLimitConfig{
			RPS:     5,
			Burst:   10,
			Enabled: true,
		},
		Restore: RestoreConfig{
			StabilizeTimeout:  15 * time.Second,
			MainWindowTimeout: 5 * time.Second,
			Remap:             true,
		},
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.Data.HistoryKeep < 0:
		return fmt.Errorf("history keep must not be negative, got %d", c.Data.HistoryKeep)
	case c.Autosave.Enabled && c.Autosave.Interval < time.Second:
		return fmt.Errorf("autosave interval %s is shorter than one second", c.Autosave.Interval)
	case c.HTTP.Port < 0 || c.HTTP.Port > 65535:
		return fmt.Errorf("http port %d out of range", c.HTTP.Port)
	case c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0):
		return fmt.Errorf("rate limit needs positive rps and burst, got %g and %d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}

// Layout returns the data directory layout.
func (c *Config) Layout() paths.Layout {
	return paths.New(c.Data.Dir)
}

// AppsPath returns the tracked-app policy file location.
func (c *Config) AppsPath() string {
	if c.Data.AppsFile != "" {
		return c.Data.AppsFile
	}
	return c.Layout().Apps()
}

// Addr returns the control API listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// Logging converts the log section into a logger configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Development = c.Log.Dev
	return cfg
}
