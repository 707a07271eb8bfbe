package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Finder config
	assert.Equal(t, "css", cfg.Finder.DefaultSelector)
	assert.Equal(t, 2*time.Second, cfg.Finder.DefaultWait)
	assert.Equal(t, 50*time.Millisecond, cfg.Finder.PollInterval)
	assert.False(t, cfg.Finder.IgnoreHidden)
	assert.True(t, cfg.Finder.PreferVisible)
	assert.Empty(t, cfg.Finder.SelectorsFile)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"DOMFIND_DEFAULT_SELECTOR": "xpath",
		"DOMFIND_DEFAULT_WAIT":     "500ms",
		"DOMFIND_POLL_INTERVAL":    "10ms",
		"DOMFIND_IGNORE_HIDDEN":    "true",
		"DOMFIND_PREFER_VISIBLE":   "false",
		"DOMFIND_SELECTORS_FILE":   "/etc/domfind/kinds.yaml",
		"DOMFIND_LOG_LEVEL":        "debug",
		"DOMFIND_LOG_DEV":          "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "xpath", cfg.Finder.DefaultSelector)
	assert.Equal(t, 500*time.Millisecond, cfg.Finder.DefaultWait)
	assert.Equal(t, 10*time.Millisecond, cfg.Finder.PollInterval)
	assert.True(t, cfg.Finder.IgnoreHidden)
	assert.False(t, cfg.Finder.PreferVisible)
	assert.Equal(t, "/etc/domfind/kinds.yaml", cfg.Finder.SelectorsFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"malformed wait", "DOMFIND_DEFAULT_WAIT", "soon"},
		{"malformed bool", "DOMFIND_IGNORE_HIDDEN", "maybe"},
		{"zero interval", "DOMFIND_POLL_INTERVAL", "0s"},
		{"negative wait", "DOMFIND_DEFAULT_WAIT", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg)
		})
	}
}
