// internal/observer/log.go
package observer

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-poller/internal/status"
)

// reasoned is implemented by read errors that carry a failure class.
// Checked with errors.As so this package never imports the poller.
type reasoned interface{ ReadReason() string }

// Log writes one structured zerolog line per event.
type Log struct {
	log zerolog.Logger
}

var _ Observer = (*Log)(nil)

// NewLog returns an Observer backed by l.
func NewLog(l zerolog.Logger) *Log {
	return &Log{log: l}
}

func (o *Log) Connecting(host string, port uint16, attempt int) {
	o.log.Info().
		Str("host", host).
		Uint16("port", port).
		Int("attempt", attempt).
		Msg("connecting")
}

func (o *Log) Connected(host string, port uint16, attempt int) {
	o.log.Info().
		Str("host", host).
		Uint16("port", port).
		Int("attempt", attempt).
		Msg("connected")
}

func (o *Log) ConnectFailed(host string, port uint16, attempt int, willRetry bool, err error) {
	ev := o.log.Warn()
	if !willRetry {
		ev = o.log.Error()
	}
	ev.Err(err).
		Str("host", host).
		Uint16("port", port).
		Int("attempt", attempt).
		Bool("will_retry", willRetry).
		Msg("connect failed")
}

func (o *Log) SessionClosed(host string, port uint16, err error) {
	ev := o.log.Info()
	if err != nil {
		ev = o.log.Warn().Err(err)
	}
	ev.Str("host", host).Uint16("port", port).Msg("closing connection")
}

func (o *Log) Snapshot(snap status.Snapshot) {
	values := snap.Values()
	o.log.Info().
		Uint16("start", snap.StartAddress()).
		Int("count", len(values)).
		Uints16("values", values).
		Time("captured_at", snap.CapturedAt()).
		Msg("registers read")

	if o.log.GetLevel() > zerolog.DebugLevel {
		return
	}
	for i, v := range values {
		o.log.Debug().
			Uint32("address", uint32(snap.StartAddress())+uint32(i)).
			Uint16("value", v).
			Msg("register")
	}
}

func (o *Log) ReadFailed(err error) {
	ev := o.log.Error().Err(err)
	var r reasoned
	if errors.As(err, &r) {
		ev = ev.Str("reason", r.ReadReason())
	}
	ev.Msg("read failed")
}

func (o *Log) StateChanged(from, to status.State) {
	o.log.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("state transition")
}

func (o *Log) Stopped(cause error) {
	if cause == nil || errors.Is(cause, context.Canceled) {
		o.log.Info().AnErr("cause", cause).Msg("stopped")
		return
	}
	o.log.Error().Err(cause).Msg("stopped")
}
