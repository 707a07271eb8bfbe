package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name
const Prefix = "DOMFIND"

// Config holds all application configuration.
type Config struct {
	Finder  FinderConfig
	Logging LogConfig
}

// FinderConfig holds lookup defaults.
type FinderConfig struct {
	DefaultSelector string        `envconfig:"DEFAULT_SELECTOR" default:"css"`
	DefaultWait     time.Duration `envconfig:"DEFAULT_WAIT" default:"2s"`
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"50ms"`
	IgnoreHidden    bool          `envconfig:"IGNORE_HIDDEN" default:"false"`
	PreferVisible   bool          `envconfig:"PREFER_VISIBLE" default:"true"`
	SelectorsFile   string        `envconfig:"SELECTORS_FILE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from DOMFIND_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg.Finder); err != nil {
		return nil, fmt.Errorf("failed to load finder config: %w", err)
	}
	if err := envconfig.Process(Prefix, &cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}
	if cfg.Finder.PollInterval <= 0 {
		return nil, fmt.Errorf("failed to load config: poll interval must be positive, got %s", cfg.Finder.PollInterval)
	}
	if cfg.Finder.DefaultWait < 0 {
		return nil, fmt.Errorf("failed to load config: default wait cannot be negative, got %s", cfg.Finder.DefaultWait)
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
		Finder: FinderConfig{
			DefaultSelector: "css",
			DefaultWait:     2 * time.Second,
			PollInterval:    50 * time.Millisecond,
			IgnoreHidden:    false,
			PreferVisible:   true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
