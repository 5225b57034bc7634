// internal/observer/observer.go
package observer

import "github.com/tamzrod/modbus-poller/internal/status"

// Observer receives every externally visible event of the polling core.
// It is the only way results leave the core.
//
// Calls are made synchronously from the supervisor goroutine.
// Implementations must not block for long.
type Observer interface {
	Connecting(host string, port uint16, attempt int)
	Connected(host string, port uint16, attempt int)
	ConnectFailed(host string, port uint16, attempt int, willRetry bool, err error)
	SessionClosed(host string, port uint16, err error)
	Snapshot(snap status.Snapshot)
	ReadFailed(err error)
	StateChanged(from, to status.State)
	Stopped(cause error)
}

// Nop discards all events.
type Nop struct{}

var _ Observer = Nop{}

func (Nop) Connecting(string, uint16, int)                 {}
func (Nop) Connected(string, uint16, int)                  {}
func (Nop) ConnectFailed(string, uint16, int, bool, error) {}
func (Nop) SessionClosed(string, uint16, error)            {}
func (Nop) Snapshot(status.Snapshot)                       {}
func (Nop) ReadFailed(error)                               {}
func (Nop) StateChanged(status.State, status.State)        {}
func (Nop) Stopped(error)                                  {}
