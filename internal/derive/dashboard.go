package derive

import (
	"sort"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// Week is the dashboard's trailing window.
const Week = 7 * 24 * time.Hour

// Inputs are the cached collections the dashboard reads.
type Inputs struct {
	Workouts   []fitness.Workout
	Meals      []fitness.Meal
	Activities []fitness.Activity
	Goals      []fitness.Goal
}

// Stats are the dashboard aggregates.
type Stats struct {
	WeekWorkouts   int
	WeekActivities int
	Meals          int
	TotalSteps     int64
	TotalDistance  float64
	TotalCalories  float64
	ActiveGoals    int
}

// Dashboard aggregates in at now. Workouts and activities are counted when
// their timestamp falls in [now-Week, now]; totals cover every record.
func Dashboard(in Inputs, now time.Time) Stats {
	hi := now.UnixMilli()
	lo := hi - Week.Milliseconds()
	inWeek := func(ns int64) bool {
		ms := fitness.NanosToMillis(ns)
		return ms >= lo && ms <= hi
	}

	var st Stats
	for _, w := range in.Workouts {
		if inWeek(w.Date) {
			st.WeekWorkouts++
		}
	}
	for _, a := range in.Activities {
		if inWeek(a.StartTime) {
			st.WeekActivities++
		}
		st.TotalSteps += a.Steps
		st.TotalDistance += a.DistanceKm
	}
	st.Meals = len(in.Meals)
	for _, m := range in.Meals {
		st.TotalCalories += m.Calories
	}
	st.ActiveGoals = len(ActiveGoals(in.Goals, now))
	return st
}

// RecentActivities returns up to n activities, most recently started first.
func RecentActivities(activities []fitness.Activity, n int) []fitness.Activity {
	out := append([]fitness.Activity(nil), activities...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime > out[j].StartTime })
	return limit(out, n)
}

// RecentWorkouts returns up to n workouts, most recent first.
func RecentWorkouts(workouts []fitness.Workout, n int) []fitness.Workout {
	out := append([]fitness.Workout(nil), workouts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return limit(out, n)
}

func limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
