package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/observability"
)

// Fetcher loads the current remote contents of one collection.
type Fetcher interface {
	Fetch(ctx context.Context, c Collection) (any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, c Collection) (any, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, c Collection) (any, error) {
	return f(ctx, c)
}

// EventKind says what happened to a collection.
type EventKind int

const (
	// Replaced fires after a successful fetch or an explicit Replace.
	Replaced EventKind = iota
	// Invalidated fires when a collection is marked stale.
	Invalidated
	// Failed fires when a fetch returns an error.
	Failed
	// Cleared fires for every collection on ClearFresh and Reset.
	Cleared
)

func (k EventKind) String() string {
	switch k {
	case Replaced:
		return "replaced"
	case Invalidated:
		return "invalidated"
	case Failed:
		return "failed"
	case Cleared:
		return "cleared"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is delivered to subscribers after the store changed.
type Event struct {
	Collection Collection
	Kind       EventKind
	Err        error
}

type entry struct {
	data   any
	status Status
	// blocked stops Ensure from retrying a failed fetch until the
	// collection is invalidated again.
	blocked bool
	// dirty records an invalidation that arrived while a fetch was in
	// flight; the reply is applied but stays stale.
	dirty bool
}

type subscription struct {
	fn    func(Event)
	watch [numCollections]bool
}

// Store is the client-side cache of every remote collection.
type Store struct {
	fetcher Fetcher
	now     func() time.Time

	mu         sync.Mutex
	entries    [numCollections]entry
	generation uint64
	subs       map[int]subscription
	nextSub    int

	wg sync.WaitGroup
}

// NewStore returns an empty store that loads collections through fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		now:     time.Now,
		subs:    make(map[int]subscription),
	}
}

// Read returns a copy of the collection's current snapshot and status.
func (s *Store) Read(c Collection) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(c)
}

func (s *Store) readLocked(c Collection) Entry {
	if !c.valid() {
		return Entry{Collection: c}
	}
	e := s.entries[c]
	return Entry{
		Status:     e.status,
		Collection: c,
		Data:       cloneData(e.data),
	}
}

// MarkStale marks c as outdated regardless of its current state.
func (s *Store) MarkStale(c Collection) {
	s.Invalidate(c)
}

// Invalidate marks every listed collection stale under one lock, so readers
// never observe part of the set invalidated.
func (s *Store) Invalidate(collections ...Collection) {
	var events []Event
	s.mu.Lock()
	for _, c := range collections {
		if !c.valid() {
			continue
		}
		e := &s.entries[c]
		e.status.Freshness = Stale
		e.blocked = false
		if e.status.InFlight {
			e.dirty = true
		}
		observability.RecordInvalidation(c.String())
		events = append(events, Event{Collection: c, Kind: Invalidated})
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, events)
}

// Replace overwrites the snapshot of c and marks it fresh.
func (s *Store) Replace(c Collection, data any) error {
	data = normalize(c, data)
	if err := checkData(c, data); err != nil {
		return err
	}
	s.mu.Lock()
	e := &s.entries[c]
	e.data = cloneData(data)
	e.status.Freshness = Fresh
	e.status.InFlight = false
	e.status.LastError = nil
	e.status.ConsecutiveFailures = 0
	e.status.UpdatedAt = s.now()
	e.blocked = false
	e.dirty = false
	observability.RecordReplace(e.status.UpdatedAt)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, []Event{{Collection: c, Kind: Replaced}})
	return nil
}

// Ensure starts a background fetch of c when it is absent or stale and no
// fetch is already running. It reports whether a fetch was started.
func (s *Store) Ensure(ctx context.Context, c Collection) bool {
	if !c.valid() {
		return false
	}
	s.mu.Lock()
	e := &s.entries[c]
	if e.status.InFlight || e.status.Freshness == Fresh || e.blocked {
		s.mu.Unlock()
		return false
	}
	e.status.InFlight = true
	gen := s.generation
	s.wg.Add(1)
	s.mu.Unlock()

	go s.fetch(ctx, c, gen)
	return true
}

// EnsureAll calls Ensure for every collection and returns how many fetches
// were started.
func (s *Store) EnsureAll(ctx context.Context) int {
	started := 0
	for _, c := range All {
		if s.Ensure(ctx, c) {
			started++
		}
	}
	return started
}

// Refresh invalidates c and immediately starts a refetch.
func (s *Store) Refresh(ctx context.Context, c Collection) bool {
	s.Invalidate(c)
	return s.Ensure(ctx, c)
}

// ClearFresh replaces every collection with an empty fresh snapshot.
// Replies to fetches issued before the call are discarded.
func (s *Store) ClearFresh() {
	s.mu.Lock()
	s.generation++
	now := s.now()
	for _, c := range All {
		s.entries[c] = entry{
			data:   emptyData(c),
			status: Status{Freshness: Fresh, UpdatedAt: now},
		}
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, clearedEvents())
}

// Reset drops every snapshot so the next reader refetches from scratch.
// Replies to fetches issued before the call are discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	s.generation++
	for _, c := range All {
		s.entries[c] = entry{}
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, clearedEvents())
}

// Subscribe registers fn for events on the given collections, or on every
// collection when none are listed. fn runs on the goroutine that caused the
// change and must not block. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Event), collections ...Collection) (cancel func()) {
	sub := subscription{fn: fn}
	if len(collections) == 0 {
		collections = All
	}
	for _, c := range collections {
		if c.valid() {
			sub.watch[c] = true
		}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Wait blocks until every fetch started so far has completed.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) fetch(ctx context.Context, c Collection, gen uint64) {
	defer s.wg.Done()

	data, err := s.fetcher.Fetch(ctx, c)
	if err == nil {
		data = normalize(c, data)
		err = checkData(c, data)
	}
	observability.RecordFetch(c.String(), err)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	e := &s.entries[c]
	e.status.InFlight = false
	var ev Event
	if err != nil {
		e.status.LastError = err
		e.status.ConsecutiveFailures++
		e.status.UpdatedAt = s.now()
		// An invalidation during the failed fetch asks for another attempt.
		e.blocked = !e.dirty
		e.dirty = false
		ev = Event{Collection: c, Kind: Failed, Err: err}
	} else {
		e.data = cloneData(data)
		e.status.LastError = nil
		e.status.ConsecutiveFailures = 0
		e.status.UpdatedAt = s.now()
		if e.dirty {
			e.status.Freshness = Stale
		} else {
			e.status.Freshness = Fresh
		}
		e.blocked = false
		e.dirty = false
		observability.RecordReplace(e.status.UpdatedAt)
		ev = Event{Collection: c, Kind: Replaced}
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, []Event{ev})
}

// normalize maps nil slices to empty ones so a fetched-but-empty
// collection is distinguishable from an absent one.
func normalize(c Collection, data any) any {
	if data == nil {
		return emptyData(c)
	}
	switch v := data.(type) {
	case []fitness.Workout:
		if v == nil {
			return emptyData(c)
		}
	case []fitness.Goal:
		if v == nil {
			return emptyData(c)
		}
	case []fitness.Meal:
		if v == nil {
			return emptyData(c)
		}
	case []fitness.Activity:
		if v == nil {
			return emptyData(c)
		}
	}
	return data
}

func (s *Store) subscribersLocked() []subscription {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	return subs
}

func (s *Store) notify(subs []subscription, events []Event) {
	for _, ev := range events {
		for _, sub := range subs {
			if sub.watch[ev.Collection] {
				sub.fn(ev)
			}
		}
	}
}

func clearedEvents() []Event {
	events := make([]Event, 0, len(All))
	for _, c := range All {
		events = append(events, Event{Collection: c, Kind: Cleared})
	}
	return events
}
