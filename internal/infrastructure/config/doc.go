// Package config provides 12-factor configuration management for domfind.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Finder: default selector kind, wait, poll interval and visibility rules
//   - Logging: Log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("waiting up to %s for matches\n", cfg.Finder.DefaultWait)
//
// Environment Variables:
//   - DOMFIND_DEFAULT_SELECTOR, DOMFIND_DEFAULT_WAIT, DOMFIND_POLL_INTERVAL
//   - DOMFIND_IGNORE_HIDDEN, DOMFIND_PREFER_VISIBLE, DOMFIND_SELECTORS_FILE
//   - DOMFIND_LOG_LEVEL, DOMFIND_LOG_DEV
package config
