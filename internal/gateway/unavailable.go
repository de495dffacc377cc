package gateway

import (
	"context"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// Unavailable stands in for the remote service when there is no session.
// Reads return empty values and every mutation fails fast.
type Unavailable struct{}

var _ Gateway = Unavailable{}

func (Unavailable) GetWorkouts(context.Context) ([]fitness.Workout, error) { return nil, nil }
func (Unavailable) GetMeals(context.Context) ([]fitness.Meal, error)       { return nil, nil }
func (Unavailable) GetGoals(context.Context) ([]fitness.Goal, error)       { return nil, nil }
func (Unavailable) GetAllActivities(context.Context) ([]fitness.Activity, error) {
	return nil, nil
}
func (Unavailable) GetCallerUserProfile(context.Context) (*fitness.Profile, error) {
	return nil, nil
}
func (Unavailable) GetCallerUserRole(context.Context) (fitness.Role, error) {
	return fitness.RoleGuest, nil
}

func (Unavailable) SaveWorkout(context.Context, fitness.Workout) error { return ErrUnavailable }
func (Unavailable) DeleteWorkout(context.Context, string) error        { return ErrUnavailable }
func (Unavailable) SaveGoal(context.Context, fitness.Goal) error       { return ErrUnavailable }
func (Unavailable) DeleteGoal(context.Context, string) error           { return ErrUnavailable }
func (Unavailable) SaveMeal(context.Context, string, fitness.Photo, fitness.Nutrition) error {
	return ErrUnavailable
}
func (Unavailable) DeleteMeal(context.Context, string) error { return ErrUnavailable }
func (Unavailable) SaveCallerUserProfile(context.Context, fitness.Profile) error {
	return ErrUnavailable
}
func (Unavailable) StartActivity(context.Context, string, fitness.ActivityType) error {
	return ErrUnavailable
}
func (Unavailable) EndActivity(context.Context, string, fitness.ActivityResult) (fitness.Activity, error) {
	return fitness.Activity{}, ErrUnavailable
}
func (Unavailable) ExportUserData(context.Context) (fitness.Export, error) {
	return fitness.Export{}, ErrUnavailable
}
func (Unavailable) DeleteAllUserData(context.Context) error { return ErrUnavailable }
