package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// gatedFetcher blocks each fetch until the test releases it.
type gatedFetcher struct {
	calls   atomic.Int32
	started chan Collection
	release chan reply
}

type reply struct {
	data any
	err  error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		started: make(chan Collection, 16),
		release: make(chan reply, 16),
	}
}

func (f *gatedFetcher) Fetch(_ context.Context, c Collection) (any, error) {
	f.calls.Add(1)
	f.started <- c
	r := <-f.release
	return r.data, r.err
}

func workouts(ids ...string) []fitness.Workout {
	out := make([]fitness.Workout, 0, len(ids))
	for _, id := range ids {
		out = append(out, fitness.Workout{
			ID:        id,
			Name:      "Session " + id,
			Exercises: []fitness.Exercise{{Name: "Squat", Sets: []fitness.Set{{Weight: 100, Reps: 5}}}},
		})
	}
	return out
}

func TestStore_AbsentUntilFetched(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f)

	e := s.Read(Workouts)
	if e.Freshness != Absent || e.Data != nil {
		t.Fatalf("Read before fetch = %v/%v, want absent/nil", e.Freshness, e.Data)
	}

	if !s.Ensure(context.Background(), Workouts) {
		t.Fatal("Ensure() = false, want true for absent collection")
	}
	<-f.started
	if st := s.Read(Workouts).Status; !st.InFlight {
		t.Fatalf("InFlight = false, want true while fetching")
	}
	f.release <- reply{data: workouts("w1")}
	s.Wait()

	e = s.Read(Workouts)
	if e.Freshness != Fresh || e.InFlight {
		t.Fatalf("status = %+v, want fresh and idle", e.Status)
	}
	got := e.Data.([]fitness.Workout)
	if len(got) != 1 || got[0].ID != "w1" {
		t.Fatalf("workouts = %#v, want [w1]", got)
	}
}

func TestStore_SingleFetchInFlight(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f)
	ctx := context.Background()

	if !s.Ensure(ctx, Goals) {
		t.Fatal("first Ensure() = false, want true")
	}
	<-f.started
	for i := 0; i < 5; i++ {
		if s.Ensure(ctx, Goals) {
			t.Fatalf("Ensure() #%d = true while a fetch is in flight", i+2)
		}
	}
	s.MarkStale(Goals)
	if s.Ensure(ctx, Goals) {
		t.Fatal("Ensure() after MarkStale = true while a fetch is in flight")
	}

	f.release <- reply{data: []fitness.Goal{}}
	s.Wait()

	// The invalidation raced the fetch, so the reply lands stale.
	if got := s.Read(Goals).Freshness; got != Stale {
		t.Fatalf("Freshness = %v, want stale after invalidation during fetch", got)
	}
	if !s.Ensure(ctx, Goals) {
		t.Fatal("Ensure() = false, want a refetch for stale collection")
	}
	<-f.started
	f.release <- reply{data: []fitness.Goal{}}
	s.Wait()

	if n := f.calls.Load(); n != 2 {
		t.Fatalf("fetch calls = %d, want 2", n)
	}
	if got := s.Read(Goals).Freshness; got != Fresh {
		t.Fatalf("Freshness = %v, want fresh", got)
	}
}

func TestStore_FreshCollectionNotRefetched(t *testing.T) {
	var calls atomic.Int32
	s := NewStore(FetcherFunc(func(context.Context, Collection) (any, error) {
		calls.Add(1)
		return []fitness.Meal{}, nil
	}))
	ctx := context.Background()

	s.Ensure(ctx, Meals)
	s.Wait()
	if s.Ensure(ctx, Meals) {
		t.Fatal("Ensure() = true for fresh collection")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("fetch calls = %d, want 1", n)
	}
}

func TestStore_FailureKeepsDataAndBlocksRetry(t *testing.T) {
	var fail atomic.Bool
	s := NewStore(FetcherFunc(func(context.Context, Collection) (any, error) {
		if fail.Load() {
			return nil, errors.New("boom")
		}
		return workouts("w1", "w2"), nil
	}))
	ctx := context.Background()

	s.Ensure(ctx, Workouts)
	s.Wait()

	fail.Store(true)
	s.Refresh(ctx, Workouts)
	s.Wait()

	e := s.Read(Workouts)
	if got := e.Data.([]fitness.Workout); len(got) != 2 {
		t.Fatalf("workouts after failure = %d items, want previous 2", len(got))
	}
	if e.LastError == nil || e.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", e.LastError)
	}
	if e.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", e.ConsecutiveFailures)
	}
	if s.Ensure(ctx, Workouts) {
		t.Fatal("Ensure() = true after failure, want no automatic retry")
	}

	fail.Store(false)
	s.MarkStale(Workouts)
	if !s.Ensure(ctx, Workouts) {
		t.Fatal("Ensure() = false after invalidation, want retry")
	}
	s.Wait()
	e = s.Read(Workouts)
	if e.LastError != nil || e.ConsecutiveFailures != 0 || e.Freshness != Fresh {
		t.Fatalf("status after recovery = %+v, want fresh with no error", e.Status)
	}
}

func TestStore_OfflineAfterRepeatedFailures(t *testing.T) {
	s := NewStore(FetcherFunc(func(context.Context, Collection) (any, error) {
		return nil, errors.New("unreachable")
	}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s.Refresh(ctx, Profile)
		s.Wait()
	}
	snap := s.Snapshot()
	if !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true after two failures")
	}
	if snap.LastError() == nil {
		t.Fatal("LastError() = nil, want unreachable")
	}
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	if err := s.Replace(Workouts, workouts("w1")); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got := s.Read(Workouts).Data.([]fitness.Workout)
	got[0].Name = "changed"
	got[0].Exercises[0].Sets[0].Reps = 99

	again := s.Read(Workouts).Data.([]fitness.Workout)
	if again[0].Name != "Session w1" || again[0].Exercises[0].Sets[0].Reps != 5 {
		t.Fatalf("stored workout mutated through Read copy: %#v", again[0])
	}
}

func TestStore_ReplaceRejectsWrongType(t *testing.T) {
	s := NewStore(nil)
	if err := s.Replace(Goals, workouts("w1")); err == nil {
		t.Fatal("Replace(Goals, workouts) error = nil, want type error")
	}
	if got := s.Read(Goals).Freshness; got != Absent {
		t.Fatalf("Freshness = %v, want absent after rejected Replace", got)
	}
}

func TestStore_MissingProfileIsFreshNil(t *testing.T) {
	s := NewStore(FetcherFunc(func(context.Context, Collection) (any, error) {
		return (*fitness.Profile)(nil), nil
	}))
	s.Ensure(context.Background(), Profile)
	s.Wait()

	snap := s.Snapshot()
	if !snap.Loaded(Profile) || snap.Profile != nil {
		t.Fatalf("profile = %v loaded=%v, want nil and loaded", snap.Profile, snap.Loaded(Profile))
	}
}

func TestStore_ClearFreshDiscardsInFlightReply(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f)
	ctx := context.Background()

	if err := s.Replace(Activities, []fitness.Activity{{ID: "a1"}}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	s.MarkStale(Meals)
	s.Ensure(ctx, Meals)
	<-f.started

	s.ClearFresh()
	f.release <- reply{data: []fitness.Meal{{ID: "m1"}}}
	s.Wait()

	snap := s.Snapshot()
	for _, c := range All {
		if st := snap.Status(c); st.Freshness != Fresh || st.InFlight {
			t.Fatalf("%s status = %+v, want fresh and idle", c, st)
		}
	}
	if len(snap.Meals) != 0 || len(snap.Activities) != 0 || snap.Profile != nil {
		t.Fatalf("snapshot after ClearFresh = %+v, want empty", snap)
	}
	if s.EnsureAll(ctx) != 0 {
		t.Fatal("EnsureAll() started fetches after ClearFresh")
	}
}

func TestStore_ResetForgetsEverything(t *testing.T) {
	s := NewStore(nil)
	_ = s.Replace(Profile, &fitness.Profile{DisplayName: "Ana", Units: fitness.Metric})
	s.Reset()

	e := s.Read(Profile)
	if e.Freshness != Absent || e.Data != nil {
		t.Fatalf("Read after Reset = %v/%v, want absent/nil", e.Freshness, e.Data)
	}
}

func TestStore_SubscribeFiltersAndCancels(t *testing.T) {
	s := NewStore(nil)

	var (
		mu     sync.Mutex
		events []Event
	)
	cancel := s.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}, Goals)

	s.MarkStale(Workouts)
	s.Invalidate(Goals, Meals)
	_ = s.Replace(Goals, []fitness.Goal{})
	cancel()
	s.MarkStale(Goals)

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("events = %+v, want 2 goal events", events)
	}
	if events[0].Kind != Invalidated || events[1].Kind != Replaced {
		t.Fatalf("event kinds = %v,%v, want invalidated,replaced", events[0].Kind, events[1].Kind)
	}
	for _, ev := range events {
		if ev.Collection != Goals {
			t.Fatalf("event for %s delivered to goals subscriber", ev.Collection)
		}
	}
}
