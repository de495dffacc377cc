package app

import (
	"context"
	"time"

	"github.com/fitdeck/fitdeck/internal/cache"
)

const defaultPollInterval = 30 * time.Second

// StartRefetcher launches a background goroutine that keeps the store
// populated. It fetches every absent or stale collection whenever the store
// reports an invalidation, and marks everything stale once per interval so
// long-running sessions pick up changes made elsewhere. The returned channel
// closes once the goroutine has exited after ctx is cancelled.
func StartRefetcher(ctx context.Context, store *cache.Store, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	wake := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(ev cache.Event) {
		if ev.Kind != cache.Invalidated && ev.Kind != cache.Cleared {
			return
		}
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer unsubscribe()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			store.EnsureAll(ctx)
			select {
			case <-ctx.Done():
				return
			case <-wake:
			case <-ticker.C:
				store.Invalidate(cache.All...)
			}
		}
	}()
	return done
}
