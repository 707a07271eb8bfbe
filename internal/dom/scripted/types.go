package scripted

import (
	"errors"
	"time"
)

var (
	ErrClosed  = errors.New("scripted page is closed")
	ErrTimeout = errors.New("script execution timeout exceeded")
)

// Config defines page script configuration
type Config struct {
	Timeout          time.Duration // Per-script and per-timer execution timeout
	MaxCallStackSize int           // goja call stack limit
	MaxTimersPerTick int           // Upper bound of callbacks fired before one query
	EnableConsole    bool          // Allow console.log/warn/error
}

// LogEntry represents console output
type LogEntry struct {
	Level   string    // log, warn, error
	Message string    // Log message
	Time    time.Time // Timestamp
}

// DefaultConfig returns the configuration used by Load
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		MaxCallStackSize: 1024,
		MaxTimersPerTick: 1000,
		EnableConsole:    true,
	}
}
