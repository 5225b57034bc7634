// internal/status/state.go
package status

// State is the supervisor lifecycle state.
// Values are fixed; do not reorder.
type State uint32

// ---- STATES ----

// Connecting means no live session is held and one is being acquired.
const Connecting State = 0

// Polling means a live session is held and read cycles are running.
const Polling State = 1

// Stopped is terminal. No session is held.
const Stopped State = 2

// String returns the lowercase state name used in logs.
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Polling:
		return "polling"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s State) IsTerminal() bool { return s == Stopped }

// CanTransition reports whether from -> to is a legal supervisor transition.
func CanTransition(from, to State) bool {
	switch from {
	case Connecting:
		return to == Polling || to == Stopped
	case Polling:
		return to == Polling || to == Connecting || to == Stopped
	default:
		return false
	}
}
