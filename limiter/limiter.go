// Package limiter provides context-aware sleeping, used for rate-limit
// backoff waits and for pacing between outbound API calls.
package limiter

import (
	"context"
	"time"
)

// Sleep blocks for the given duration, returning early with the context's
// error if it is canceled first.
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
