// internal/config/normalize.go
package config

import "strings"

// Normalize applies canonical forms.
// It is allowed to mutate configuration.
// It never fixes invalid values; Validate reports those.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Poller.Host = strings.TrimSpace(cfg.Poller.Host)
	cfg.Simulator.Host = strings.TrimSpace(cfg.Simulator.Host)

	// Log level is case-insensitive; empty means default.
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
