// internal/poller/types.go
package poller

import "time"

// RetryPolicy bounds session acquisition.
type RetryPolicy struct {
	// MaxAttempts is the total number of connect attempts. 0 means unlimited.
	MaxAttempts int
	// Interval is the pause between a failed attempt and the next one.
	Interval time.Duration
}

// Unlimited reports whether the policy never gives up.
func (p RetryPolicy) Unlimited() bool { return p.MaxAttempts == 0 }

// Config is the minimal runtime config the supervisor needs.
type Config struct {
	Host string
	Port uint16

	StartAddress uint16
	Count        uint16

	PollInterval time.Duration
	Retry        RetryPolicy
}
