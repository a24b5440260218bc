package backoff

import (
	"context"
	"time"
)

// Sleep waits for d and reports whether the full wait elapsed.
// It returns false immediately when ctx is done, so retry loops
// built on it stay cancellable.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
