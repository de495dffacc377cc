package cache

import (
	"fmt"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// checkData verifies data has the concrete type expected for c.
func checkData(c Collection, data any) error {
	ok := false
	switch c {
	case Profile:
		_, ok = data.(*fitness.Profile)
	case Workouts:
		_, ok = data.([]fitness.Workout)
	case Goals:
		_, ok = data.([]fitness.Goal)
	case Meals:
		_, ok = data.([]fitness.Meal)
	case Activities:
		_, ok = data.([]fitness.Activity)
	default:
		return fmt.Errorf("unknown collection %d", int(c))
	}
	if !ok {
		return fmt.Errorf("%s: unexpected data type %T", c, data)
	}
	return nil
}

// emptyData is what a collection holds after a bulk wipe.
func emptyData(c Collection) any {
	switch c {
	case Profile:
		return (*fitness.Profile)(nil)
	case Workouts:
		return []fitness.Workout{}
	case Goals:
		return []fitness.Goal{}
	case Meals:
		return []fitness.Meal{}
	case Activities:
		return []fitness.Activity{}
	}
	return nil
}

func cloneData(data any) any {
	switch v := data.(type) {
	case *fitness.Profile:
		if v == nil {
			return v
		}
		dup := *v
		return &dup
	case []fitness.Workout:
		return cloneWorkouts(v)
	case []fitness.Goal:
		return cloneSlice(v)
	case []fitness.Meal:
		return cloneSlice(v)
	case []fitness.Activity:
		return cloneSlice(v)
	}
	return data
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}

func cloneWorkouts(items []fitness.Workout) []fitness.Workout {
	dup := cloneSlice(items)
	for i := range dup {
		exercises := cloneSlice(dup[i].Exercises)
		for j := range exercises {
			exercises[j].Sets = cloneSlice(exercises[j].Sets)
		}
		dup[i].Exercises = exercises
	}
	return dup
}
