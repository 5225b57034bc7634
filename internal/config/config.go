// internal/config/config.go
package config

import "time"

type Config struct {
	Poller    PollerConfig    `yaml:"poller"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Log       LogConfig       `yaml:"log"`
}

// ---- POLLER ----

type PollerConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`

	StartAddress  uint16 `yaml:"start_address"`
	RegisterCount uint16 `yaml:"register_count"`

	PollInterval  time.Duration `yaml:"poll_interval"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	MaxAttempts   int           `yaml:"max_attempts"` // 0 = retry forever
	Timeout       time.Duration `yaml:"timeout"`      // per connect / per request
}

// ---- SIMULATOR ----

type SimulatorConfig struct {
	Host      string `yaml:"host"`
	Port      uint16 `yaml:"port"`
	TableSize int    `yaml:"table_size"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Defaults.
const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 502
	DefaultStartAddress  = 0
	DefaultRegisterCount = 10
	DefaultPollInterval  = 2 * time.Second
	DefaultRetryInterval = 5 * time.Second
	DefaultTimeout       = 5 * time.Second
	DefaultTableSize     = 100
	DefaultLogLevel      = "info"

	MaxRegisterCount = 125
)

// Default returns a Config with every default applied.
func Default() Config {
	return Config{
		Poller: PollerConfig{
			Host:          DefaultHost,
			Port:          DefaultPort,
			StartAddress:  DefaultStartAddress,
			RegisterCount: DefaultRegisterCount,
			PollInterval:  DefaultPollInterval,
			RetryInterval: DefaultRetryInterval,
			MaxAttempts:   0,
			Timeout:       DefaultTimeout,
		},
		Simulator: SimulatorConfig{
			Host:      DefaultHost,
			Port:      DefaultPort,
			TableSize: DefaultTableSize,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}
