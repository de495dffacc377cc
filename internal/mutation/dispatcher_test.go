package mutation

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
)

// freshStore returns a store where every collection is fresh with one item.
func freshStore(t *testing.T) *cache.Store {
	t.Helper()
	s := cache.NewStore(nil)
	seed := map[cache.Collection]any{
		cache.Profile:    &fitness.Profile{DisplayName: "Ana", Units: fitness.Metric},
		cache.Workouts:   []fitness.Workout{{ID: "w1"}},
		cache.Goals:      []fitness.Goal{{ID: "g1"}},
		cache.Meals:      []fitness.Meal{{ID: "m1"}},
		cache.Activities: []fitness.Activity{{ID: "a1"}},
	}
	for c, data := range seed {
		if err := s.Replace(c, data); err != nil {
			t.Fatalf("Replace(%s) error = %v", c, err)
		}
	}
	return s
}

func staleSet(s *cache.Store) []cache.Collection {
	var out []cache.Collection
	for _, c := range cache.All {
		if s.Read(c).Freshness == cache.Stale {
			out = append(out, c)
		}
	}
	return out
}

func TestInvalidatesTable(t *testing.T) {
	tests := []struct {
		kind  Kind
		want  []cache.Collection
		clear bool
	}{
		{KindSaveWorkout, []cache.Collection{cache.Workouts, cache.Goals}, false},
		{KindDeleteWorkout, []cache.Collection{cache.Workouts, cache.Goals}, false},
		{KindSaveGoal, []cache.Collection{cache.Goals}, false},
		{KindDeleteGoal, []cache.Collection{cache.Goals}, false},
		{KindSaveMeal, []cache.Collection{cache.Meals, cache.Goals}, false},
		{KindDeleteMeal, []cache.Collection{cache.Meals, cache.Goals}, false},
		{KindStartActivity, []cache.Collection{cache.Activities}, false},
		{KindEndActivity, []cache.Collection{cache.Activities, cache.Goals}, false},
		{KindSaveProfile, []cache.Collection{cache.Profile}, false},
		{KindDeleteAll, cache.All, true},
	}
	if len(tests) != len(Kinds) {
		t.Fatalf("table covers %d kinds, want %d", len(tests), len(Kinds))
	}
	for _, tt := range tests {
		got := Invalidates(tt.kind)
		if !reflect.DeepEqual(got.Collections, tt.want) || got.Clear != tt.clear {
			t.Fatalf("Invalidates(%s) = %+v, want %v clear=%v", tt.kind, got, tt.want, tt.clear)
		}
	}
}

func TestInvalidatesReturnsCopy(t *testing.T) {
	r := Invalidates(KindSaveMeal)
	r.Collections[0] = cache.Profile
	if got := Invalidates(KindSaveMeal).Collections[0]; got != cache.Meals {
		t.Fatalf("table mutated through returned rule: first = %s", got)
	}
}

func TestInvalidatesUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Invalidates(unknown) did not panic")
		}
	}()
	Invalidates(Kind(99))
}

func TestDispatch_SaveMealMarksMealsAndGoals(t *testing.T) {
	gw := &fakeGateway{}
	store := freshStore(t)
	d := NewDispatcher(gw, store)

	_, err := d.Dispatch(context.Background(), SaveMeal{
		ID:        "m2",
		Photo:     fitness.Photo{Data: []byte{0xff}},
		Nutrition: fitness.Nutrition{500, 60, 30, 15, 5, 10, 700},
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	want := []cache.Collection{cache.Goals, cache.Meals}
	if got := staleSet(store); !reflect.DeepEqual(got, want) {
		t.Fatalf("stale collections = %v, want %v", got, want)
	}
}

func TestDispatch_EveryKindInvalidatesItsRow(t *testing.T) {
	valid := []Mutation{
		SaveWorkout{Workout: fitness.Workout{ID: "w", Name: "Push", Exercises: []fitness.Exercise{{Name: "Bench", Sets: []fitness.Set{{Weight: 60, Reps: 8}}}}}},
		DeleteWorkout{ID: "w"},
		SaveGoal{Goal: fitness.Goal{ID: "g", Description: "Run", GoalType: fitness.GoalDistance, Target: 10, StartDate: 1, EndDate: 2}},
		DeleteGoal{ID: "g"},
		DeleteMeal{ID: "m"},
		StartActivity{ID: "a", ActivityType: fitness.Walk},
		EndActivity{ID: "a", Result: fitness.ActivityResult{Steps: 10}},
		SaveProfile{Profile: fitness.Profile{DisplayName: "Ana", Units: fitness.Imperial}},
	}
	for _, m := range valid {
		store := freshStore(t)
		d := NewDispatcher(&fakeGateway{}, store)
		if _, err := d.Dispatch(context.Background(), m); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", m.Kind(), err)
		}
		want := map[cache.Collection]bool{}
		for _, c := range Invalidates(m.Kind()).Collections {
			want[c] = true
		}
		for _, c := range cache.All {
			stale := store.Read(c).Freshness == cache.Stale
			if stale != want[c] {
				t.Fatalf("%s: %s stale = %v, want %v", m.Kind(), c, stale, want[c])
			}
		}
	}
}

func TestDispatch_FailureLeavesStoreUntouched(t *testing.T) {
	rejected := &gateway.RejectedError{Op: "saveWorkout", Status: 500, Message: "db down"}
	gw := &fakeGateway{err: rejected}
	store := freshStore(t)
	before := store.Snapshot()
	d := NewDispatcher(gw, store)

	_, err := d.Dispatch(context.Background(), SaveWorkout{Workout: fitness.Workout{
		ID: "w2", Name: "Legs",
		Exercises: []fitness.Exercise{{Name: "Squat", Sets: []fitness.Set{{Weight: 100, Reps: 5}}}},
	}})
	var got *gateway.RejectedError
	if !errors.As(err, &got) || got.Message != "db down" {
		t.Fatalf("Dispatch() error = %v, want rejection", err)
	}
	if stale := staleSet(store); len(stale) != 0 {
		t.Fatalf("stale collections after failure = %v, want none", stale)
	}
	if after := store.Snapshot(); !reflect.DeepEqual(after.Workouts, before.Workouts) {
		t.Fatalf("workouts changed after failure: %+v", after.Workouts)
	}
	if d.Pending(KindSaveWorkout) {
		t.Fatal("Pending() = true after failed dispatch")
	}
}

func TestDispatch_ValidationFailureSkipsRemote(t *testing.T) {
	gw := &fakeGateway{}
	d := NewDispatcher(gw, freshStore(t))

	tests := []Mutation{
		SaveWorkout{Workout: fitness.Workout{ID: "w", Name: "  "}},
		SaveGoal{Goal: fitness.Goal{ID: "g", Description: "x", GoalType: fitness.GoalSteps, Target: 0, EndDate: 5}},
		SaveMeal{ID: "m", Nutrition: fitness.Nutrition{100}},
		StartActivity{ID: "a", ActivityType: "swim"},
		EndActivity{ID: "", Result: fitness.ActivityResult{}},
		SaveProfile{Profile: fitness.Profile{DisplayName: "", Units: fitness.Metric}},
		DeleteGoal{ID: ""},
	}
	for _, m := range tests {
		_, err := d.Dispatch(context.Background(), m)
		var verr *fitness.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Dispatch(%s) error = %v, want ValidationError", m.Kind(), err)
		}
	}
	if calls := gw.Calls(); len(calls) != 0 {
		t.Fatalf("remote calls = %v, want none", calls)
	}
}

func TestDispatch_UnavailableFailsFast(t *testing.T) {
	store := freshStore(t)
	d := NewDispatcher(gateway.Unavailable{}, store)

	_, err := d.Dispatch(context.Background(), DeleteGoal{ID: "g1"})
	if !errors.Is(err, gateway.ErrUnavailable) {
		t.Fatalf("Dispatch() error = %v, want ErrUnavailable", err)
	}
	if stale := staleSet(store); len(stale) != 0 {
		t.Fatalf("stale collections = %v, want none", stale)
	}
}

func TestDispatch_DeleteAllLeavesFreshEmpty(t *testing.T) {
	store := freshStore(t)
	d := NewDispatcher(&fakeGateway{}, store)

	if _, err := d.Dispatch(context.Background(), DeleteAll{}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	snap := store.Snapshot()
	for _, c := range cache.All {
		if st := snap.Status(c); st.Freshness != cache.Fresh {
			t.Fatalf("%s freshness = %v, want fresh", c, st.Freshness)
		}
	}
	if snap.Profile != nil || len(snap.Workouts)+len(snap.Goals)+len(snap.Meals)+len(snap.Activities) != 0 {
		t.Fatalf("snapshot after delete-all = %+v, want empty", snap)
	}
	if n := store.EnsureAll(context.Background()); n != 0 {
		t.Fatalf("EnsureAll() started %d fetches, want 0", n)
	}
}

func TestDispatch_EndActivityReturnsFinalized(t *testing.T) {
	d := NewDispatcher(&fakeGateway{}, freshStore(t))

	res, err := d.Dispatch(context.Background(), EndActivity{
		ID:     "a1",
		Result: fitness.ActivityResult{Steps: 312, DurationMinutes: 2.08},
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Activity == nil || res.Activity.ID != "a1" || res.Activity.Steps != 312 {
		t.Fatalf("Result.Activity = %+v, want a1 with 312 steps", res.Activity)
	}
}

func TestDispatch_DuplicateSubmissionSuppressed(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{})}
	d := NewDispatcher(gw, freshStore(t))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := d.Dispatch(ctx, DeleteMeal{ID: "m1"})
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !d.Pending(KindDeleteMeal) {
		if time.Now().After(deadline) {
			t.Fatal("first dispatch never became pending")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := d.Dispatch(ctx, DeleteMeal{ID: "m1"}); !errors.Is(err, ErrPending) {
		t.Fatalf("second Dispatch() error = %v, want ErrPending", err)
	}
	// A different kind is not blocked.
	if d.Pending(KindDeleteGoal) {
		t.Fatal("Pending(delete_goal) = true, want false")
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first Dispatch() error = %v", err)
	}
	if calls := gw.Calls(); len(calls) != 1 {
		t.Fatalf("remote calls = %v, want exactly one", calls)
	}
}
