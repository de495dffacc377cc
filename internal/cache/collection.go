package cache

import (
	"fmt"
	"time"
)

// Collection identifies one cached entity collection.
type Collection int

const (
	Profile Collection = iota
	Workouts
	Goals
	Meals
	Activities

	numCollections = iota
)

// All lists every collection in a stable order.
var All = []Collection{Profile, Workouts, Goals, Meals, Activities}

func (c Collection) String() string {
	switch c {
	case Profile:
		return "profile"
	case Workouts:
		return "workouts"
	case Goals:
		return "goals"
	case Meals:
		return "meals"
	case Activities:
		return "activities"
	default:
		return fmt.Sprintf("collection(%d)", int(c))
	}
}

func (c Collection) valid() bool {
	return c >= 0 && c < numCollections
}

// Freshness describes how far a cached snapshot can be trusted.
type Freshness int

const (
	// Absent means the collection was never fetched.
	Absent Freshness = iota
	// Stale means the snapshot is known to be outdated.
	Stale
	// Fresh means the snapshot is known to be current.
	Fresh
)

func (f Freshness) String() string {
	switch f {
	case Stale:
		return "stale"
	case Fresh:
		return "fresh"
	default:
		return "absent"
	}
}

// Status is the bookkeeping kept alongside each snapshot.
type Status struct {
	Freshness           Freshness
	InFlight            bool
	LastError           error
	ConsecutiveFailures int
	UpdatedAt           time.Time
}

// Entry is the result of Read: a private copy of the data plus its status.
type Entry struct {
	Status
	Collection Collection
	// Data is *fitness.Profile for Profile and a slice of the entity type
	// otherwise. It is nil while the collection is absent.
	Data any
}
