// internal/poller/runner_test.go
package poller

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-poller/internal/observer"
	"github.com/tamzrod/modbus-poller/internal/status"
)

func testConfig() Config {
	return Config{
		Host:         "dev",
		Port:         502,
		StartAddress: 0,
		Count:        10,
		PollInterval: 0,
		Retry:        RetryPolicy{MaxAttempts: 0, Interval: 0},
	}
}

func newSupervisor(t *testing.T, cfg Config, d Dialer) (*Supervisor, *observer.Recorder) {
	t.Helper()
	rec := &observer.Recorder{}
	s, err := New(cfg, d, rec)
	require.NoError(t, err)
	require.Equal(t, status.Connecting, s.State())
	return s, rec
}

func TestSupervisor_HappyPathThenStop(t *testing.T) {
	sess := &fakeSession{results: []readResult{
		{regs: seq(0, 10)},
		{regs: seq(0, 10)},
		{regs: seq(0, 10)},
	}}
	d := &fakeDialer{sessions: []*fakeSession{sess}}
	s, rec := newSupervisor(t, testConfig(), d)

	sess.onRead = func(n int) {
		if n == 3 {
			s.Stop()
		}
	}

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, status.Stopped, s.State())
	assert.Equal(t, 3, rec.Count(observer.KindSnapshot))
	assert.Equal(t, 1, sess.closeCount())
	assert.Equal(t, 1, rec.Count(observer.KindSessionClosed))
	assert.Equal(t, 1, rec.Count(observer.KindStopped))

	snap, ok := rec.Last(observer.KindSnapshot)
	require.True(t, ok)
	assert.Equal(t, seq(0, 10), snap.Snapshot.Values())

	stopped, _ := rec.Last(observer.KindStopped)
	assert.ErrorIs(t, stopped.Err, ErrCancelled)

	assert.Equal(t, [][2]status.State{
		{status.Connecting, status.Polling},
		{status.Polling, status.Stopped},
	}, rec.Transitions())
}

func TestSupervisor_TransportErrorRebuildsSession(t *testing.T) {
	first := &fakeSession{results: []readResult{
		{regs: seq(0, 10)},
		{err: io.EOF},
	}}
	second := &fakeSession{}
	d := &fakeDialer{sessions: []*fakeSession{first, second}}
	s, rec := newSupervisor(t, testConfig(), d)

	second.onRead = func(int) { s.Stop() }

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 2, d.dialCount())
	assert.Equal(t, 1, first.closeCount(), "dropped session closed exactly once")
	assert.Equal(t, 1, second.closeCount())

	failed := rec.Filter(observer.KindReadFailed)
	require.Len(t, failed, 1)
	assert.True(t, IsTransport(failed[0].Err))

	// read_failed is reported, then the session is released, then CONNECTING.
	kinds := rec.Kinds()
	idx := indexOf(kinds, observer.KindReadFailed)
	require.GreaterOrEqual(t, idx, 0)
	require.Greater(t, len(kinds), idx+3)
	assert.Equal(t, observer.KindSessionClosed, kinds[idx+1])
	assert.Equal(t, observer.KindStateChanged, kinds[idx+2])
	assert.Equal(t, observer.KindConnecting, kinds[idx+3])

	assert.Equal(t, [][2]status.State{
		{status.Connecting, status.Polling},
		{status.Polling, status.Connecting},
		{status.Connecting, status.Polling},
		{status.Polling, status.Stopped},
	}, rec.Transitions())
}

func TestSupervisor_ProtocolErrorKeepsSession(t *testing.T) {
	sess := &fakeSession{results: []readResult{
		{err: exceptionErr{code: 2}},
		{regs: seq(0, 10)},
		{err: exceptionErr{code: 2}},
	}}
	d := &fakeDialer{sessions: []*fakeSession{sess}}
	s, rec := newSupervisor(t, testConfig(), d)

	sess.onRead = func(n int) {
		if n == 3 {
			s.Stop()
		}
	}

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 1, d.dialCount())
	assert.Equal(t, 1, sess.closeCount())
	assert.Equal(t, 2, rec.Count(observer.KindReadFailed))
	assert.Equal(t, 1, rec.Count(observer.KindSnapshot))

	for _, tr := range rec.Transitions() {
		assert.NotEqual(t, status.Connecting, tr[1], "protocol error must not reconnect")
	}
}

func TestSupervisor_BoundedRetryStops(t *testing.T) {
	cfg := testConfig()
	cfg.Retry.MaxAttempts = 2
	d := &fakeDialer{failures: 1000}
	s, rec := newSupervisor(t, cfg, d)

	err := s.Run(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	assert.Equal(t, status.Stopped, s.State())
	assert.Equal(t, 2, d.dialCount())
	assert.Equal(t, 1, rec.Count(observer.KindStopped))
	assert.Equal(t, 0, rec.Count(observer.KindSessionClosed))
	assert.Equal(t, [][2]status.State{{status.Connecting, status.Stopped}}, rec.Transitions())

	stopped, _ := rec.Last(observer.KindStopped)
	assert.ErrorIs(t, stopped.Err, ErrUnavailable)

	// failures are reported before the transition
	kinds := rec.Kinds()
	assert.Equal(t, observer.KindConnectFailed, kinds[len(kinds)-3])
}

func TestSupervisor_RepeatedStopIsIdempotent(t *testing.T) {
	sess := &fakeSession{}
	d := &fakeDialer{sessions: []*fakeSession{sess}}
	s, rec := newSupervisor(t, testConfig(), d)

	sess.onRead = func(int) { s.Stop() }

	require.NoError(t, s.Run(context.Background()))

	s.Stop()
	s.Stop()
	s.Stop()

	assert.Equal(t, status.Stopped, s.State())
	assert.Equal(t, 1, rec.Count(observer.KindStopped))
	assert.Equal(t, 1, sess.closeCount())

	require.ErrorIs(t, s.Run(context.Background()), errAlreadyStarted)
	assert.Equal(t, 1, rec.Count(observer.KindStopped))
}

func TestSupervisor_StopBeforeRun(t *testing.T) {
	d := &fakeDialer{sessions: []*fakeSession{{}}}
	s, rec := newSupervisor(t, testConfig(), d)

	s.Stop()
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 0, d.dialCount())
	assert.Equal(t, status.Stopped, s.State())
	assert.Equal(t, 1, rec.Count(observer.KindStopped))
}

func TestSupervisor_StopDuringPollInterval(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = time.Hour
	sess := &fakeSession{}
	d := &fakeDialer{sessions: []*fakeSession{sess}}
	s, rec := newSupervisor(t, cfg, d)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return rec.Count(observer.KindSnapshot) == 1
	}, 5*time.Second, 5*time.Millisecond)

	s.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop during poll interval")
	}

	assert.Equal(t, 1, sess.closeCount())
	assert.Equal(t, status.Stopped, s.State())
}

func TestSupervisor_ParentContextCancelDuringRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.Retry.Interval = time.Hour
	d := &fakeDialer{failures: 1000}
	d.onDial = func(n int) {
		if n == 1 {
			cancel()
		}
	}
	s, rec := newSupervisor(t, cfg, d)

	require.NoError(t, s.Run(ctx))
	assert.Equal(t, status.Stopped, s.State())
	assert.Equal(t, [][2]status.State{{status.Connecting, status.Stopped}}, rec.Transitions())
}

func indexOf(kinds []observer.Kind, k observer.Kind) int {
	for i, v := range kinds {
		if v == k {
			return i
		}
	}
	return -1
}
