// internal/poller/pause.go
package poller

import (
	"context"
	"time"
)

// pause suspends for d unless ctx is cancelled first.
// d <= 0 only checks ctx, so tests can run with zero intervals.
func pause(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
