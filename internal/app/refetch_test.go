package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/config"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls map[cache.Collection]int
}

func (f *countingFetcher) Fetch(_ context.Context, c cache.Collection) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[cache.Collection]int)
	}
	f.calls[c]++
	switch c {
	case cache.Profile:
		return &fitness.Profile{DisplayName: "Ana", Units: fitness.Metric}, nil
	case cache.Workouts:
		return []fitness.Workout{}, nil
	case cache.Goals:
		return []fitness.Goal{}, nil
	case cache.Meals:
		return []fitness.Meal{}, nil
	default:
		return []fitness.Activity{}, nil
	}
}

func (f *countingFetcher) count(c cache.Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[c]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func allFresh(s *cache.Store) bool {
	snap := s.Snapshot()
	for _, c := range cache.All {
		if snap.Status(c).Freshness != cache.Fresh {
			return false
		}
	}
	return true
}

func TestRefetcher_LoadsEverythingOnStart(t *testing.T) {
	f := &countingFetcher{}
	store := cache.NewStore(f)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartRefetcher(ctx, store, time.Hour)

	waitFor(t, "initial load", func() bool { return allFresh(store) })
	cancel()
	<-done
	store.Wait()

	for _, c := range cache.All {
		if n := f.count(c); n != 1 {
			t.Fatalf("%s fetched %d times, want 1", c, n)
		}
	}
}

func TestRefetcher_RefetchesOnlyInvalidated(t *testing.T) {
	f := &countingFetcher{}
	store := cache.NewStore(f)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartRefetcher(ctx, store, time.Hour)
	defer func() {
		cancel()
		<-done
		store.Wait()
	}()

	waitFor(t, "initial load", func() bool { return allFresh(store) })

	store.Invalidate(cache.Meals, cache.Goals)
	waitFor(t, "refetch", func() bool { return f.count(cache.Meals) == 2 && f.count(cache.Goals) == 2 })
	waitFor(t, "fresh again", func() bool { return allFresh(store) })

	if n := f.count(cache.Workouts); n != 1 {
		t.Fatalf("workouts fetched %d times, want 1", n)
	}
}

func TestRefetcher_PeriodicTickMarksAllStale(t *testing.T) {
	f := &countingFetcher{}
	store := cache.NewStore(f)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartRefetcher(ctx, store, 20*time.Millisecond)
	defer func() {
		cancel()
		<-done
		store.Wait()
	}()

	waitFor(t, "periodic refresh", func() bool {
		for _, c := range cache.All {
			if f.count(c) < 2 {
				return false
			}
		}
		return true
	})
}

func TestRefetcher_ClearFreshDoesNotRefetch(t *testing.T) {
	f := &countingFetcher{}
	store := cache.NewStore(f)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartRefetcher(ctx, store, time.Hour)

	waitFor(t, "initial load", func() bool { return allFresh(store) })
	store.ClearFresh()
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done
	store.Wait()

	for _, c := range cache.All {
		if n := f.count(c); n != 1 {
			t.Fatalf("%s fetched %d times after ClearFresh, want 1", c, n)
		}
	}
}

func TestNewGateway(t *testing.T) {
	now := func() time.Time { return time.Unix(1_700_000_000, 0) }

	gw, err := newGateway(config.Config{}, now)
	if err != nil {
		t.Fatalf("newGateway() error = %v", err)
	}
	if _, ok := gw.(gateway.Unavailable); !ok {
		t.Fatalf("newGateway() without credentials = %T, want gateway.Unavailable", gw)
	}

	gw, err = newGateway(config.Config{APIURL: "127.0.0.1:8460", JWTSecret: "s", User: "ana", JWTIssuer: "fitdeck.local"}, now)
	if err != nil {
		t.Fatalf("newGateway() error = %v", err)
	}
	if _, ok := gw.(*gateway.Client); !ok {
		t.Fatalf("newGateway() with secret = %T, want *gateway.Client", gw)
	}

	gw, err = newGateway(config.Config{APIURL: "127.0.0.1:8460", Token: "abc"}, now)
	if err != nil {
		t.Fatalf("newGateway() error = %v", err)
	}
	if _, ok := gw.(*gateway.Client); !ok {
		t.Fatalf("newGateway() with token = %T, want *gateway.Client", gw)
	}
}
