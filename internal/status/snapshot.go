// internal/status/snapshot.go
package status

import "time"

// Snapshot is one successful holding register read.
// It is immutable: fields are private and Values returns a copy.
type Snapshot struct {
	start  uint16
	values []uint16
	at     time.Time
}

// NewSnapshot copies values so later mutation by the caller is not observed.
func NewSnapshot(start uint16, values []uint16, at time.Time) Snapshot {
	cp := make([]uint16, len(values))
	copy(cp, values)
	return Snapshot{start: start, values: cp, at: at}
}

// StartAddress is the address of the first register in the snapshot.
func (s Snapshot) StartAddress() uint16 { return s.start }

// Values returns a copy of the register values in address order.
func (s Snapshot) Values() []uint16 {
	cp := make([]uint16, len(s.values))
	copy(cp, s.values)
	return cp
}

// Len is the number of registers captured.
func (s Snapshot) Len() int { return len(s.values) }

// CapturedAt is the wall-clock time the read completed.
func (s Snapshot) CapturedAt() time.Time { return s.at }

// IsZero reports whether s is the zero Snapshot (no read).
func (s Snapshot) IsZero() bool { return s.values == nil && s.at.IsZero() }
