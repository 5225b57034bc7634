// internal/status/state_test.go
package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "polling", Polling.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{Connecting, Polling, true},
		{Connecting, Stopped, true},
		{Connecting, Connecting, false},
		{Polling, Polling, true},
		{Polling, Connecting, true},
		{Polling, Stopped, true},
		{Stopped, Connecting, false},
		{Stopped, Polling, false},
		{Stopped, Stopped, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}

	assert.True(t, Stopped.IsTerminal())
	assert.False(t, Polling.IsTerminal())
}
