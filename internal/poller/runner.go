// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tamzrod/modbus-poller/internal/observer"
	"github.com/tamzrod/modbus-poller/internal/status"
)

var errAlreadyStarted = errors.New("poller: supervisor already started")

// Supervisor drives Connector and Cycle as a CONNECTING/POLLING/STOPPED
// state machine. One goroutine, no overlap.
//
// It owns at most one session at a time and closes it before acquiring a
// new one and before stopping.
type Supervisor struct {
	connector *Connector
	cycle     *Cycle
	obs       observer.Observer
	interval  time.Duration
	host      string
	port      uint16

	state atomic.Uint32

	mu            sync.Mutex
	started       bool
	stopRequested bool
	cancel        context.CancelFunc

	stopOnce sync.Once
}

// New builds a supervisor from cfg. The Connector and Cycle are built here.
func New(cfg Config, d Dialer, obs observer.Observer) (*Supervisor, error) {
	if obs == nil {
		obs = observer.Nop{}
	}
	if cfg.PollInterval < 0 {
		return nil, fmt.Errorf("poller: poll interval %s must be >= 0", cfg.PollInterval)
	}

	conn, err := NewConnector(cfg.Host, cfg.Port, cfg.Retry, d, obs)
	if err != nil {
		return nil, err
	}

	cycle, err := NewCycle(cfg.StartAddress, cfg.Count)
	if err != nil {
		return nil, err
	}

	s := &Supervisor{
		connector: conn,
		cycle:     cycle,
		obs:       obs,
		interval:  cfg.PollInterval,
		host:      cfg.Host,
		port:      cfg.Port,
	}
	s.state.Store(uint32(status.Connecting))
	return s, nil
}

// State returns the current state. Safe from any goroutine.
func (s *Supervisor) State() status.State {
	return status.State(s.state.Load())
}

// Stop requests termination. The supervisor stops at its next checkpoint.
// Calling Stop more than once, or after the supervisor stopped, has no effect.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopRequested = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Run blocks until the supervisor reaches STOPPED.
// It returns nil on operator cancellation and an error matching
// ErrUnavailable when a bounded retry budget is exhausted.
func (s *Supervisor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errAlreadyStarted
	}
	s.started = true
	s.cancel = cancel
	if s.stopRequested {
		cancel()
	}
	s.mu.Unlock()

	var sess Session

	for {
		// Cancellation wins at every checkpoint.
		if ctx.Err() != nil {
			s.release(&sess)
			s.stop(cancelled(ctx))
			return nil
		}

		switch s.State() {
		case status.Connecting:
			acquired, err := s.connector.Acquire(ctx)
			if err != nil {
				if errors.Is(err, ErrCancelled) {
					continue
				}
				s.stop(err)
				return err
			}
			sess = acquired
			s.transition(status.Polling)

		case status.Polling:
			snap, err := s.cycle.Read(sess)
			if err != nil {
				s.obs.ReadFailed(err)
			} else {
				s.obs.Snapshot(snap)
			}

			if IsTransport(err) {
				s.release(&sess)
				s.transition(status.Connecting)
				continue
			}

			// Error from pause means ctx is done; the loop head handles it.
			_ = pause(ctx, s.interval)

		default:
			s.release(&sess)
			return nil
		}
	}
}

// release closes the held session exactly once and forgets it.
func (s *Supervisor) release(sess *Session) {
	if *sess == nil {
		return
	}
	err := (*sess).Close()
	*sess = nil
	s.obs.SessionClosed(s.host, s.port, err)
}

func (s *Supervisor) transition(to status.State) {
	from := s.State()
	if !status.CanTransition(from, to) {
		return
	}
	s.state.Store(uint32(to))
	if from != to {
		s.obs.StateChanged(from, to)
	}
}

func (s *Supervisor) stop(cause error) {
	s.stopOnce.Do(func() {
		s.transition(status.Stopped)
		s.obs.Stopped(cause)
	})
}
