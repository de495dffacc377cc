package cache

import "github.com/fitdeck/fitdeck/internal/fitness"

// Snapshot is a typed, consistent view of every collection taken under a
// single lock.
type Snapshot struct {
	Profile    *fitness.Profile
	Workouts   []fitness.Workout
	Goals      []fitness.Goal
	Meals      []fitness.Meal
	Activities []fitness.Activity

	status [numCollections]Status
}

// Status returns the bookkeeping for c at the time the snapshot was taken.
func (s Snapshot) Status(c Collection) Status {
	if !c.valid() {
		return Status{}
	}
	return s.status[c]
}

// Loaded reports whether c has data, fresh or stale.
func (s Snapshot) Loaded(c Collection) bool {
	return s.Status(c).Freshness != Absent
}

// Loading reports whether c has no data yet and a fetch is running.
func (s Snapshot) Loading(c Collection) bool {
	st := s.Status(c)
	return st.Freshness == Absent && st.InFlight
}

// IsOffline returns true when any collection failed to load at least twice
// in a row.
func (s Snapshot) IsOffline() bool {
	for _, st := range s.status {
		if st.ConsecutiveFailures >= 2 {
			return true
		}
	}
	return false
}

// LastError returns the most recent fetch error across all collections.
func (s Snapshot) LastError() error {
	var (
		err    error
		latest Status
	)
	for _, st := range s.status {
		if st.LastError != nil && !st.UpdatedAt.Before(latest.UpdatedAt) {
			err = st.LastError
			latest = st
		}
	}
	return err
}

// Snapshot returns copies of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	for _, c := range All {
		e := s.readLocked(c)
		snap.status[c] = e.Status
		switch v := e.Data.(type) {
		case *fitness.Profile:
			snap.Profile = v
		case []fitness.Workout:
			snap.Workouts = v
		case []fitness.Goal:
			snap.Goals = v
		case []fitness.Meal:
			snap.Meals = v
		case []fitness.Activity:
			snap.Activities = v
		}
	}
	return snap
}
