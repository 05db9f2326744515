package timing

import (
	"context"
	"time"
)

// Pause blocks the calling goroutine for d or until ctx ends, in which case it
// returns ctx.Err().
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

// BusyWait spins on the current goroutine for d without yielding to a timer.
// It burns a CPU for the whole duration and exists for benchmarks and tests
// that need a goroutine to stay busy.
func BusyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
