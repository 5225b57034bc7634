// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-poller/internal/poller"
)

// DefaultUnitID is the slave id sent in every request.
const DefaultUnitID uint8 = 1

// DefaultTimeout bounds connect and each request when Config.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// ExceptionError is a Modbus exception response from the device.
// The session stays usable after one.
type ExceptionError struct {
	Function byte // request function code, exception bit cleared
	Code     byte
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d", e.Function, e.Code)
}

// ExceptionCode lets the poller classify this as a protocol error.
func (e *ExceptionError) ExceptionCode() uint8 { return e.Code }

// Client implements poller.Session over one Modbus TCP connection.
//
// goburrow redials transparently on the next request after a failure.
// Client refuses that: once a transport error is seen, or after Close,
// every read fails so the supervisor rebuilds the session itself.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client

	closed bool
	broken error
}

var _ poller.Session = (*Client)(nil)

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID
	// no idle close: the session lives until the supervisor releases it
	h.IdleTimeout = 0

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.handler.Close()
}

func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("modbus client: %w", net.ErrClosed)
	}
	if c.broken != nil {
		return nil, fmt.Errorf("modbus client: session broken: %w", c.broken)
	}

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		var mbErr *modbus.ModbusError
		if errors.As(err, &mbErr) {
			return nil, &ExceptionError{Function: mbErr.FunctionCode &^ 0x80, Code: mbErr.ExceptionCode}
		}
		c.broken = err
		return nil, err
	}

	if len(raw) != 2*int(qty) {
		c.broken = fmt.Errorf("modbus: read-registers payload %d bytes, want %d", len(raw), 2*int(qty))
		return nil, c.broken
	}

	return unpackRegisters(raw), nil
}

// Dialer opens one Client per Dial call.
type Dialer struct {
	UnitID  uint8
	Timeout time.Duration
}

var _ poller.Dialer = (*Dialer)(nil)

// Dial makes one connect attempt bounded by d.Timeout.
func (d *Dialer) Dial(ctx context.Context, host string, port uint16) (poller.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := New(Config{
		Endpoint: net.JoinHostPort(host, strconv.Itoa(int(port))),
		UnitID:   d.UnitID,
		Timeout:  d.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ---- helpers (pure geometry) ----

// unpackRegisters decodes big-endian register words.
func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
