// internal/poller/connect.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/tamzrod/modbus-poller/internal/observer"
)

// Connector owns the retry policy for establishing a session.
type Connector struct {
	host   string
	port   uint16
	policy RetryPolicy
	dialer Dialer
	obs    observer.Observer
}

// NewConnector validates the policy and returns a Connector.
func NewConnector(host string, port uint16, policy RetryPolicy, d Dialer, obs observer.Observer) (*Connector, error) {
	if host == "" {
		return nil, errors.New("poller: host required")
	}
	if d == nil {
		return nil, errors.New("poller: dialer required")
	}
	if policy.MaxAttempts < 0 {
		return nil, fmt.Errorf("poller: max attempts %d must be >= 0", policy.MaxAttempts)
	}
	if policy.Interval < 0 {
		return nil, fmt.Errorf("poller: retry interval %s must be >= 0", policy.Interval)
	}
	if obs == nil {
		obs = observer.Nop{}
	}
	return &Connector{host: host, port: port, policy: policy, dialer: d, obs: obs}, nil
}

// Addr is the host:port the connector dials.
func (c *Connector) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(int(c.port)))
}

// Acquire dials until a session is open, the retry budget is spent
// (ErrUnavailable) or ctx is cancelled (ErrCancelled).
// Retry state is local to each call.
func (c *Connector) Acquire(ctx context.Context) (Session, error) {
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil, cancelled(ctx)
		}

		c.obs.Connecting(c.host, c.port, attempt)

		sess, err := c.dialer.Dial(ctx, c.host, c.port)
		if err == nil {
			c.obs.Connected(c.host, c.port, attempt)
			return sess, nil
		}

		cerr := &ConnectError{Addr: c.Addr(), Err: err}

		if ctx.Err() != nil {
			c.obs.ConnectFailed(c.host, c.port, attempt, false, cerr)
			return nil, cancelled(ctx)
		}

		willRetry := c.policy.Unlimited() || attempt < c.policy.MaxAttempts
		c.obs.ConnectFailed(c.host, c.port, attempt, willRetry, cerr)

		if !willRetry {
			return nil, &UnavailableError{Attempts: attempt, Err: cerr}
		}

		if err := pause(ctx, c.policy.Interval); err != nil {
			return nil, cancelled(ctx)
		}
	}
}
