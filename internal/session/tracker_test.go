package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/mutation"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	errs map[mutation.Kind]error
	sent []mutation.Mutation
}

func (d *fakeDispatcher) Dispatch(_ context.Context, m mutation.Mutation) (mutation.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, m)
	if err := d.errs[m.Kind()]; err != nil {
		return mutation.Result{}, err
	}
	res := mutation.Result{Kind: m.Kind()}
	if end, ok := m.(mutation.EndActivity); ok {
		res.Activity = &fitness.Activity{ID: end.ID, Steps: end.Result.Steps, DurationMinutes: end.Result.DurationMinutes}
	}
	return res, nil
}

func (d *fakeDispatcher) fail(kind mutation.Kind, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errs == nil {
		d.errs = make(map[mutation.Kind]error)
	}
	d.errs[kind] = err
}

// manualScheduler fires callbacks only when the test asks.
type manualScheduler struct {
	fn        func()
	scheduled int
	cancelled int
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	s.fn = fn
	s.scheduled++
	active := true
	return func() {
		if active {
			active = false
			s.cancelled++
			s.fn = nil
		}
	}
}

func (s *manualScheduler) fire(n int) {
	for i := 0; i < n && s.fn != nil; i++ {
		s.fn()
	}
}

func newTestTracker() (*Tracker, *fakeDispatcher, *manualScheduler) {
	d := &fakeDispatcher{}
	s := &manualScheduler{}
	tr := NewTracker(d, s)
	tr.newID = func() string { return "session-1" }
	return tr, d, s
}

func TestTracker_RunFor125Seconds(t *testing.T) {
	tr, d, sched := newTestTracker()
	ctx := context.Background()

	if err := tr.Start(ctx, fitness.Run); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sched.fire(125)
	if got := tr.Elapsed(); got != 125*time.Second {
		t.Fatalf("Elapsed() = %v, want 125s", got)
	}

	activity, err := tr.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if tr.State() != Idle {
		t.Fatalf("State() = %v, want idle", tr.State())
	}
	if sched.cancelled != 1 {
		t.Fatalf("tick cancelled %d times, want 1", sched.cancelled)
	}
	if activity.ID != "session-1" || activity.Steps != 312 {
		t.Fatalf("activity = %+v, want session-1 with 312 steps", activity)
	}

	end := d.sent[len(d.sent)-1].(mutation.EndActivity)
	r := end.Result
	if r.Steps != 312 {
		t.Fatalf("steps = %d, want 312", r.Steps)
	}
	if math.Abs(r.DurationMinutes-125.0/60) > 1e-9 {
		t.Fatalf("durationMinutes = %v, want ~2.083", r.DurationMinutes)
	}
	if math.Abs(r.DistanceKm-0.3125) > 1e-9 {
		t.Fatalf("distanceKm = %v, want 0.3125", r.DistanceKm)
	}
	if math.Abs(r.Calories-20.8333333) > 1e-6 {
		t.Fatalf("calories = %v, want ~20.83", r.Calories)
	}
}

func TestTracker_StartFailureRevertsToIdle(t *testing.T) {
	tr, d, sched := newTestTracker()
	d.fail(mutation.KindStartActivity, errors.New("rejected"))

	if err := tr.Start(context.Background(), fitness.Walk); err == nil {
		t.Fatal("Start() error = nil, want rejection")
	}
	if tr.State() != Idle {
		t.Fatalf("State() = %v, want idle after failed start", tr.State())
	}
	if _, ok := tr.Current(); ok {
		t.Fatal("Current() reports a session after failed start")
	}
	if sched.cancelled != 1 || sched.fn != nil {
		t.Fatal("tick not cancelled after failed start")
	}
}

func TestTracker_StopFailureKeepsTracking(t *testing.T) {
	tr, d, sched := newTestTracker()
	ctx := context.Background()

	if err := tr.Start(ctx, fitness.Cycle); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sched.fire(30)
	d.fail(mutation.KindEndActivity, errors.New("offline"))

	if _, err := tr.Stop(ctx); err == nil {
		t.Fatal("Stop() error = nil, want failure")
	}
	if tr.State() != Tracking {
		t.Fatalf("State() = %v, want tracking after failed stop", tr.State())
	}
	if got := tr.Elapsed(); got != 30*time.Second {
		t.Fatalf("Elapsed() = %v, want 30s preserved", got)
	}

	// Retry succeeds with the elapsed time still counting.
	sched.fire(30)
	d.fail(mutation.KindEndActivity, nil)
	activity, err := tr.Stop(ctx)
	if err != nil {
		t.Fatalf("retry Stop() error = %v", err)
	}
	if activity.DurationMinutes != 1 {
		t.Fatalf("durationMinutes = %v, want 1", activity.DurationMinutes)
	}
}

func TestTracker_Misuse(t *testing.T) {
	tr, _, _ := newTestTracker()
	ctx := context.Background()

	if _, err := tr.Stop(ctx); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("Stop() while idle error = %v, want ErrNotTracking", err)
	}
	var verr *fitness.ValidationError
	if err := tr.Start(ctx, "swim"); !errors.As(err, &verr) {
		t.Fatalf("Start(swim) error = %v, want ValidationError", err)
	}
	if err := tr.Start(ctx, fitness.Walk); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := tr.Start(ctx, fitness.Run); !errors.Is(err, ErrAlreadyTracking) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyTracking", err)
	}
}

func TestTracker_CloseCancelsTick(t *testing.T) {
	tr, _, sched := newTestTracker()

	if err := tr.Start(context.Background(), fitness.Walk); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sched.fire(10)
	tr.Close()

	if sched.fn != nil || sched.cancelled != 1 {
		t.Fatal("Close() did not cancel the tick")
	}
	if tr.State() != Idle || tr.Elapsed() != 0 {
		t.Fatalf("after Close state = %v elapsed = %v, want idle and 0", tr.State(), tr.Elapsed())
	}
	tr.Tick()
	if tr.Elapsed() != 0 {
		t.Fatal("Tick() advanced an idle tracker")
	}
}

func TestTracker_NewSessionStartsFromZero(t *testing.T) {
	tr, _, sched := newTestTracker()
	ctx := context.Background()

	_ = tr.Start(ctx, fitness.Walk)
	sched.fire(5)
	if _, err := tr.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	_ = tr.Start(ctx, fitness.Walk)
	if got := tr.Elapsed(); got != 0 {
		t.Fatalf("Elapsed() of new session = %v, want 0", got)
	}
	if sched.scheduled != 2 {
		t.Fatalf("scheduled %d ticks, want 2", sched.scheduled)
	}
}

func TestTickerSchedulerCancelStopsCallbacks(t *testing.T) {
	var mu sync.Mutex
	count := 0
	cancel := TickerScheduler{}.Every(time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := count
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("ticker never fired")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	cancel()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != after {
		t.Fatalf("callbacks continued after cancel: %d → %d", after, count)
	}
}

func TestSimulateMetricsPerType(t *testing.T) {
	tests := []struct {
		typ      fitness.ActivityType
		steps    int64
		km, kcal float64
	}{
		{fitness.Walk, 1000, 0.8, 40},
		{fitness.Run, 1500, 1.5, 100},
		{fitness.Cycle, 0, 2.5, 80},
	}
	for _, tt := range tests {
		got := SimulateMetrics(tt.typ, 10*time.Minute)
		if got.Steps != tt.steps || math.Abs(got.DistanceKm-tt.km) > 1e-9 || math.Abs(got.Calories-tt.kcal) > 1e-9 {
			t.Fatalf("SimulateMetrics(%s, 10m) = %+v, want steps=%d km=%v kcal=%v", tt.typ, got, tt.steps, tt.km, tt.kcal)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{125 * time.Second, "00:02:05"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "03:04:05"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Fatalf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
