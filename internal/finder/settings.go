package finder

import (
	"time"

	"github.com/GriffinCanCode/domfinder/internal/infrastructure/config"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

// Settings is the configuration snapshot every lookup reads once at entry
type Settings struct {
	// DefaultKind applies when the argument list has no leading kind
	DefaultKind selector.Name
	// DefaultWait bounds Find on dynamic documents
	DefaultWait time.Duration
	// PollInterval spaces retries
	PollInterval time.Duration
	// IgnoreHidden makes every lookup visible-only unless overridden
	IgnoreHidden bool
	// PreferVisible lets First pick a visible match over an earlier hidden one
	PreferVisible bool
}

// DefaultSettings returns the built-in defaults
func DefaultSettings() Settings {
	return FromConfig(config.Default().Finder)
}

// FromConfig builds settings from the environment configuration
func FromConfig(cfg config.FinderConfig) Settings {
	s := Settings{
		DefaultKind:   selector.Name(cfg.DefaultSelector),
		DefaultWait:   cfg.DefaultWait,
		PollInterval:  cfg.PollInterval,
		IgnoreHidden:  cfg.IgnoreHidden,
		PreferVisible: cfg.PreferVisible,
	}
	if s.DefaultKind == "" {
		s.DefaultKind = selector.CSS
	}
	if s.PollInterval <= 0 {
		s.PollInterval = 50 * time.Millisecond
	}
	if s.DefaultWait < 0 {
		s.DefaultWait = 0
	}
	return s
}
