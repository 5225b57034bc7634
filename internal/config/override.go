// internal/config/override.go
package config

// Flag names shared by the commands and the override helpers.
const (
	FlagHost          = "host"
	FlagPort          = "port"
	FlagStartAddress  = "start-address"
	FlagRegisterCount = "count"
	FlagPollInterval  = "poll-interval"
	FlagRetryInterval = "retry-interval"
	FlagMaxAttempts   = "max-attempts"
	FlagTimeout       = "timeout"
	FlagTableSize     = "table-size"
	FlagLogLevel      = "log-level"
)

// OverridePoller copies every field of src whose flag was explicitly set
// into dst. Precedence: defaults < file < changed flags.
func OverridePoller(dst *PollerConfig, src PollerConfig, changed map[string]bool) {
	if changed[FlagHost] {
		dst.Host = src.Host
	}
	if changed[FlagPort] {
		dst.Port = src.Port
	}
	if changed[FlagStartAddress] {
		dst.StartAddress = src.StartAddress
	}
	if changed[FlagRegisterCount] {
		dst.RegisterCount = src.RegisterCount
	}
	if changed[FlagPollInterval] {
		dst.PollInterval = src.PollInterval
	}
	if changed[FlagRetryInterval] {
		dst.RetryInterval = src.RetryInterval
	}
	if changed[FlagMaxAttempts] {
		dst.MaxAttempts = src.MaxAttempts
	}
	if changed[FlagTimeout] {
		dst.Timeout = src.Timeout
	}
}

// OverrideSimulator is OverridePoller for the simulator section.
func OverrideSimulator(dst *SimulatorConfig, src SimulatorConfig, changed map[string]bool) {
	if changed[FlagHost] {
		dst.Host = src.Host
	}
	if changed[FlagPort] {
		dst.Port = src.Port
	}
	if changed[FlagTableSize] {
		dst.TableSize = src.TableSize
	}
}

// OverrideLog is OverridePoller for the log section.
func OverrideLog(dst *LogConfig, src LogConfig, changed map[string]bool) {
	if changed[FlagLogLevel] {
		dst.Level = src.Level
	}
}
