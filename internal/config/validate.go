// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	if err := ValidatePoller(cfg.Poller); err != nil {
		return err
	}
	if err := ValidateSimulator(cfg.Simulator); err != nil {
		return err
	}
	return ValidateLog(cfg.Log)
}

// ValidatePoller checks the client side only.
func ValidatePoller(p PollerConfig) error {
	if p.Host == "" {
		return errors.New("poller: host is required")
	}
	if p.Port == 0 {
		return errors.New("poller: port must be 1..65535")
	}

	// ------------------------------------------------------------
	// READ GEOMETRY
	// ------------------------------------------------------------

	if p.RegisterCount < 1 || p.RegisterCount > MaxRegisterCount {
		return fmt.Errorf(
			"poller: register_count %d must be 1..%d",
			p.RegisterCount,
			MaxRegisterCount,
		)
	}
	if end := int(p.StartAddress) + int(p.RegisterCount); end > 65536 {
		return fmt.Errorf(
			"poller: range start_address=%d register_count=%d runs past address 65535",
			p.StartAddress,
			p.RegisterCount,
		)
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	if p.PollInterval < 0 {
		return fmt.Errorf("poller: poll_interval %s must be >= 0", p.PollInterval)
	}
	if p.RetryInterval < 0 {
		return fmt.Errorf("poller: retry_interval %s must be >= 0", p.RetryInterval)
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("poller: max_attempts %d must be >= 0 (0 = unlimited)", p.MaxAttempts)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("poller: timeout %s must be > 0", p.Timeout)
	}

	return nil
}

// ValidateSimulator checks the device side only.
func ValidateSimulator(s SimulatorConfig) error {
	if s.Host == "" {
		return errors.New("simulator: host is required")
	}
	if s.Port == 0 {
		return errors.New("simulator: port must be 1..65535")
	}
	if s.TableSize < 1 || s.TableSize > 65536 {
		return fmt.Errorf("simulator: table_size %d must be 1..65536", s.TableSize)
	}
	return nil
}

// ValidateLog checks the log level name.
func ValidateLog(l LogConfig) error {
	switch l.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log: unknown level %q", l.Level)
	}
}
