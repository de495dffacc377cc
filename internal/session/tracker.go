// Package session owns the live activity tracker: one session at a time,
// a one-second tick while tracking, and the start/end mutations that bracket it.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/mutation"
)

var (
	// ErrAlreadyTracking is returned by Start when a session is running.
	ErrAlreadyTracking = errors.New("activity already being tracked")
	// ErrNotTracking is returned by Stop when no session is running.
	ErrNotTracking = errors.New("no activity is being tracked")
)

// State is the tracker's lifecycle state.
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Dispatcher sends a mutation to the remote service.
type Dispatcher interface {
	Dispatch(ctx context.Context, m mutation.Mutation) (mutation.Result, error)
}

// Session describes the running session.
type Session struct {
	ID           string
	ActivityType fitness.ActivityType
	Elapsed      time.Duration
	// Pending is true while the start or end call has not returned.
	Pending bool
}

// Tracker is the activity session state machine.
type Tracker struct {
	dispatch Dispatcher
	sched    Scheduler
	newID    func() string

	mu           sync.Mutex
	state        State
	id           string
	activityType fitness.ActivityType
	ticks        int64
	cancelTick   func()
	starting     bool
	stopping     bool
}

// NewTracker returns an idle tracker.
func NewTracker(d Dispatcher, sched Scheduler) *Tracker {
	if sched == nil {
		sched = TickerScheduler{}
	}
	return &Tracker{dispatch: d, sched: sched, newID: uuid.NewString}
}

// Start begins a new session of the given type. The tracker enters Tracking
// before the remote call and falls back to Idle if the call fails.
func (t *Tracker) Start(ctx context.Context, activityType fitness.ActivityType) error {
	if !activityType.Valid() {
		return &fitness.ValidationError{Field: "activityType", Reason: "choose walk, run or cycle"}
	}

	t.mu.Lock()
	if t.state != Idle {
		t.mu.Unlock()
		return ErrAlreadyTracking
	}
	id := t.newID()
	t.state = Tracking
	t.id = id
	t.activityType = activityType
	t.ticks = 0
	t.starting = true
	t.cancelTick = t.sched.Every(time.Second, func() { t.tick(id) })
	t.mu.Unlock()

	_, err := t.dispatch.Dispatch(ctx, mutation.StartActivity{ID: id, ActivityType: activityType})

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id != id {
		// Closed while the call was pending.
		return err
	}
	t.starting = false
	if err != nil {
		t.leaveLocked()
		return err
	}
	log.Printf("activity %s started (%s)", id, activityType)
	return nil
}

// Stop ends the running session with simulated metrics. On failure the
// session keeps tracking with its elapsed time so the caller can retry.
func (t *Tracker) Stop(ctx context.Context) (fitness.Activity, error) {
	t.mu.Lock()
	if t.state != Tracking {
		t.mu.Unlock()
		return fitness.Activity{}, ErrNotTracking
	}
	if t.starting || t.stopping {
		t.mu.Unlock()
		return fitness.Activity{}, mutation.ErrPending
	}
	id := t.id
	result := SimulateMetrics(t.activityType, t.elapsedLocked())
	t.stopping = true
	t.mu.Unlock()

	res, err := t.dispatch.Dispatch(ctx, mutation.EndActivity{ID: id, Result: result})

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id != id {
		return fitness.Activity{}, err
	}
	t.stopping = false
	if err != nil {
		return fitness.Activity{}, err
	}
	t.leaveLocked()
	log.Printf("activity %s ended after %.1f min", id, result.DurationMinutes)

	if res.Activity != nil {
		return *res.Activity, nil
	}
	return fitness.Activity{ID: id, Steps: result.Steps, DistanceKm: result.DistanceKm,
		Calories: result.Calories, DurationMinutes: result.DurationMinutes}, nil
}

// Tick advances the running session by one second. It does nothing while idle.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Tracking {
		t.ticks++
	}
}

func (t *Tracker) tick(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Tracking && t.id == id {
		t.ticks++
	}
}

// Elapsed returns the tracked time of the running session.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

func (t *Tracker) elapsedLocked() time.Duration {
	return time.Duration(t.ticks) * time.Second
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Current returns the running session, if any.
func (t *Tracker) Current() (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Tracking {
		return Session{}, false
	}
	return Session{
		ID:           t.id,
		ActivityType: t.activityType,
		Elapsed:      t.elapsedLocked(),
		Pending:      t.starting || t.stopping,
	}, true
}

// Close cancels the tick and discards any running session. Results of calls
// still in flight are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Tracking {
		log.Printf("activity %s discarded", t.id)
	}
	t.leaveLocked()
}

func (t *Tracker) leaveLocked() {
	if t.cancelTick != nil {
		t.cancelTick()
		t.cancelTick = nil
	}
	t.state = Idle
	t.id = ""
	t.ticks = 0
	t.starting = false
	t.stopping = false
}
