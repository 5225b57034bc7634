// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/modbus-poller/internal/status"
)

// MaxRegisterCount is the protocol limit for one FC3 request.
const MaxRegisterCount = 125

// Session is one open transport connection.
// It is owned by exactly one component at a time and never shared across polls.
type Session interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	Close() error
}

// Dialer opens sessions. One attempt per call, no retries.
type Dialer interface {
	Dial(ctx context.Context, host string, port uint16) (Session, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, host string, port uint16) (Session, error)

func (f DialerFunc) Dial(ctx context.Context, host string, port uint16) (Session, error) {
	return f(ctx, host, port)
}

// Cycle performs exactly one holding register read per call.
// It never retries; retry policy belongs to Connector and Supervisor.
type Cycle struct {
	start uint16
	count uint16
	now   func() time.Time
}

// NewCycle creates a poll cycle with immutable geometry.
func NewCycle(start, count uint16) (*Cycle, error) {
	if count == 0 {
		return nil, errors.New("poller: register count must be >= 1")
	}
	if count > MaxRegisterCount {
		return nil, fmt.Errorf("poller: register count %d exceeds %d", count, MaxRegisterCount)
	}
	if int(start)+int(count) > 65536 {
		return nil, fmt.Errorf("poller: range %d+%d exceeds address space", start, count)
	}
	return &Cycle{start: start, count: count, now: time.Now}, nil
}

// Read performs one poll against sess.
// All-or-nothing: a Snapshot is returned only when every requested register arrived.
func (c *Cycle) Read(sess Session) (status.Snapshot, error) {
	if sess == nil {
		return status.Snapshot{}, &ReadError{Reason: ReasonTransport, Err: errors.New("poller: no session")}
	}

	regs, err := sess.ReadHoldingRegisters(c.start, c.count)
	if err != nil {
		return status.Snapshot{}, classify(err)
	}

	if len(regs) != int(c.count) {
		return status.Snapshot{}, &ReadError{
			Reason: ReasonTransport,
			Err:    fmt.Errorf("poller: short read: got=%d want=%d", len(regs), c.count),
		}
	}

	return status.NewSnapshot(c.start, regs, c.now()), nil
}
