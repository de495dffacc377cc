// Package derive computes display values from cached records: goal
// completion, unit conversions and dashboard aggregates. Every function is
// pure; callers pass the clock in.
package derive

import (
	"math"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// ProgressPercent returns how complete a goal is, clamped to [0, 100].
// A goal without a positive target is 0% complete.
func ProgressPercent(g fitness.Goal) float64 {
	if g.Target <= 0 || g.Progress <= 0 {
		return 0
	}
	return math.Min(100, 100*float64(g.Progress)/float64(g.Target))
}

// IsGoalActive reports whether the goal window is still open at now.
func IsGoalActive(g fitness.Goal, now time.Time) bool {
	return fitness.NanosFromTime(now) < g.EndDate
}

// ActiveGoals returns the goals whose window is open at now.
func ActiveGoals(goals []fitness.Goal, now time.Time) []fitness.Goal {
	var out []fitness.Goal
	for _, g := range goals {
		if IsGoalActive(g, now) {
			out = append(out, g)
		}
	}
	return out
}

// GoalUnit is the label shown next to a goal's target.
func GoalUnit(t fitness.GoalType) string {
	switch t {
	case fitness.GoalDuration:
		return "minutes"
	case fitness.GoalCalories:
		return "calories"
	case fitness.GoalDistance:
		return "km"
	case fitness.GoalWorkoutsPerWeek:
		return "workouts"
	case fitness.GoalSteps:
		return "steps"
	}
	panic("derive: unknown goal type " + string(t))
}
