// Package clock abstracts the simulated latency points so tests can inject
// a zero-delay scheduler.
package clock

import (
	"context"
	"time"
)

// Sleeper waits for d or until ctx is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
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

// Immediate never waits. Useful in tests.
func Immediate(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
