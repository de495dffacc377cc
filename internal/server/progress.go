package server

import (
	"math"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

const week = 7 * 24 * time.Hour

// GoalProgress computes a goal's progress from the records that fall inside
// its window [StartDate, EndDate]. Only finished activities count.
//
//	duration        workout minutes plus activity minutes
//	calories        activity calories
//	distance        activity kilometres
//	workoutsPerWeek workouts in the last seven days
//	steps           activity steps
//
// Fractional totals are rounded down.
func GoalProgress(g fitness.Goal, workouts []fitness.Workout, activities []fitness.Activity, now time.Time) int64 {
	inWindow := func(ts int64) bool {
		return ts >= g.StartDate && ts <= g.EndDate
	}

	var total float64
	switch g.GoalType {
	case fitness.GoalWorkoutsPerWeek:
		since := fitness.NanosFromTime(now.Add(-week))
		until := fitness.NanosFromTime(now)
		for _, w := range workouts {
			if inWindow(w.Date) && w.Date >= since && w.Date <= until {
				total++
			}
		}
		return int64(total)
	case fitness.GoalDuration:
		for _, w := range workouts {
			if inWindow(w.Date) {
				total += float64(w.Duration)
			}
		}
	}

	for _, a := range activities {
		if a.IsActive || !inWindow(a.StartTime) {
			continue
		}
		switch g.GoalType {
		case fitness.GoalDuration:
			total += a.DurationMinutes
		case fitness.GoalCalories:
			total += a.Calories
		case fitness.GoalDistance:
			total += a.DistanceKm
		case fitness.GoalSteps:
			total += float64(a.Steps)
		}
	}
	return int64(math.Floor(total))
}
