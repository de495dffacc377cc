package mutation

import (
	"fmt"

	"github.com/fitdeck/fitdeck/internal/cache"
)

// Kind identifies a class of remote write.
type Kind int

const (
	KindSaveWorkout Kind = iota
	KindDeleteWorkout
	KindSaveGoal
	KindDeleteGoal
	KindSaveMeal
	KindDeleteMeal
	KindStartActivity
	KindEndActivity
	KindSaveProfile
	KindDeleteAll

	numKinds = iota
)

// Kinds lists every mutation kind.
var Kinds = []Kind{
	KindSaveWorkout, KindDeleteWorkout,
	KindSaveGoal, KindDeleteGoal,
	KindSaveMeal, KindDeleteMeal,
	KindStartActivity, KindEndActivity,
	KindSaveProfile, KindDeleteAll,
}

func (k Kind) String() string {
	switch k {
	case KindSaveWorkout:
		return "save_workout"
	case KindDeleteWorkout:
		return "delete_workout"
	case KindSaveGoal:
		return "save_goal"
	case KindDeleteGoal:
		return "delete_goal"
	case KindSaveMeal:
		return "save_meal"
	case KindDeleteMeal:
		return "delete_meal"
	case KindStartActivity:
		return "start_activity"
	case KindEndActivity:
		return "end_activity"
	case KindSaveProfile:
		return "save_profile"
	case KindDeleteAll:
		return "delete_all"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule is the cache effect of a successful mutation.
type Rule struct {
	// Collections are marked stale.
	Collections []cache.Collection
	// Clear replaces every collection with fresh empty data instead.
	Clear bool
}

// Goals depend on workouts, meals and activities because the server derives
// progress from them.
var graph = [numKinds]Rule{
	KindSaveWorkout:   {Collections: []cache.Collection{cache.Workouts, cache.Goals}},
	KindDeleteWorkout: {Collections: []cache.Collection{cache.Workouts, cache.Goals}},
	KindSaveGoal:      {Collections: []cache.Collection{cache.Goals}},
	KindDeleteGoal:    {Collections: []cache.Collection{cache.Goals}},
	KindSaveMeal:      {Collections: []cache.Collection{cache.Meals, cache.Goals}},
	KindDeleteMeal:    {Collections: []cache.Collection{cache.Meals, cache.Goals}},
	KindStartActivity: {Collections: []cache.Collection{cache.Activities}},
	KindEndActivity:   {Collections: []cache.Collection{cache.Activities, cache.Goals}},
	KindSaveProfile:   {Collections: []cache.Collection{cache.Profile}},
	KindDeleteAll:     {Collections: cache.All, Clear: true},
}

// Invalidates returns the rule for k. It panics on an unknown kind.
func Invalidates(k Kind) Rule {
	if k < 0 || k >= numKinds {
		panic(fmt.Sprintf("mutation: no invalidation rule for %s", k))
	}
	r := graph[k]
	return Rule{
		Collections: append([]cache.Collection(nil), r.Collections...),
		Clear:       r.Clear,
	}
}

// Apply performs the rule against store.
func (r Rule) Apply(store *cache.Store) {
	if r.Clear {
		store.ClearFresh()
		return
	}
	store.Invalidate(r.Collections...)
}
