// internal/observer/recorder.go
package observer

import (
	"sync"

	"github.com/tamzrod/modbus-poller/internal/status"
)

// Kind identifies an Observer callback.
type Kind int

const (
	KindConnecting Kind = iota
	KindConnected
	KindConnectFailed
	KindSessionClosed
	KindSnapshot
	KindReadFailed
	KindStateChanged
	KindStopped
)

func (k Kind) String() string {
	switch k {
	case KindConnecting:
		return "connecting"
	case KindConnected:
		return "connected"
	case KindConnectFailed:
		return "connect_failed"
	case KindSessionClosed:
		return "session_closed"
	case KindSnapshot:
		return "snapshot"
	case KindReadFailed:
		return "read_failed"
	case KindStateChanged:
		return "state_changed"
	case KindStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is one recorded callback. Only the fields relevant to Kind are set.
type Event struct {
	Kind      Kind
	Host      string
	Port      uint16
	Attempt   int
	WillRetry bool
	Err       error
	Snapshot  status.Snapshot
	From, To  status.State
}

// Recorder keeps every event in order. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Observer = (*Recorder)(nil)

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Connecting(host string, port uint16, attempt int) {
	r.add(Event{Kind: KindConnecting, Host: host, Port: port, Attempt: attempt})
}

func (r *Recorder) Connected(host string, port uint16, attempt int) {
	r.add(Event{Kind: KindConnected, Host: host, Port: port, Attempt: attempt})
}

func (r *Recorder) ConnectFailed(host string, port uint16, attempt int, willRetry bool, err error) {
	r.add(Event{Kind: KindConnectFailed, Host: host, Port: port, Attempt: attempt, WillRetry: willRetry, Err: err})
}

func (r *Recorder) SessionClosed(host string, port uint16, err error) {
	r.add(Event{Kind: KindSessionClosed, Host: host, Port: port, Err: err})
}

func (r *Recorder) Snapshot(snap status.Snapshot) {
	r.add(Event{Kind: KindSnapshot, Snapshot: snap})
}

func (r *Recorder) ReadFailed(err error) {
	r.add(Event{Kind: KindReadFailed, Err: err})
}

func (r *Recorder) StateChanged(from, to status.State) {
	r.add(Event{Kind: KindStateChanged, From: from, To: to})
}

func (r *Recorder) Stopped(cause error) {
	r.add(Event{Kind: KindStopped, Err: cause})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []Kind {
	evs := r.Events()
	out := make([]Kind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}

// Filter returns recorded events of kind k in order.
func (r *Recorder) Filter(k Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	return len(r.Filter(k))
}

// Last returns the most recent event of kind k.
func (r *Recorder) Last(k Kind) (Event, bool) {
	evs := r.Filter(k)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

// Transitions returns the recorded state changes as (from, to) pairs.
func (r *Recorder) Transitions() [][2]status.State {
	var out [][2]status.State
	for _, e := range r.Filter(KindStateChanged) {
		out = append(out, [2]status.State{e.From, e.To})
	}
	return out
}
