package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// Gateway is the remote service contract: per-collection reads and writes,
// the activity lifecycle, bulk operations and the identity check.
type Gateway interface {
	GetWorkouts(ctx context.Context) ([]fitness.Workout, error)
	GetMeals(ctx context.Context) ([]fitness.Meal, error)
	GetGoals(ctx context.Context) ([]fitness.Goal, error)
	GetAllActivities(ctx context.Context) ([]fitness.Activity, error)
	GetCallerUserProfile(ctx context.Context) (*fitness.Profile, error)
	GetCallerUserRole(ctx context.Context) (fitness.Role, error)

	SaveWorkout(ctx context.Context, workout fitness.Workout) error
	DeleteWorkout(ctx context.Context, id string) error
	SaveGoal(ctx context.Context, goal fitness.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	SaveMeal(ctx context.Context, id string, photo fitness.Photo, nutrition fitness.Nutrition) error
	DeleteMeal(ctx context.Context, id string) error
	SaveCallerUserProfile(ctx context.Context, profile fitness.Profile) error

	StartActivity(ctx context.Context, id string, activityType fitness.ActivityType) error
	EndActivity(ctx context.Context, id string, result fitness.ActivityResult) (fitness.Activity, error)

	ExportUserData(ctx context.Context) (fitness.Export, error)
	DeleteAllUserData(ctx context.Context) error
}

// ErrUnavailable is returned by mutations when there is no authenticated session.
var ErrUnavailable = errors.New("gateway unavailable: not signed in")

// RejectedError reports a remote call that completed with a failure.
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s rejected (status %d): %s", e.Op, e.Status, msg)
}

// IsNotFound reports whether err is a rejection with status 404.
func IsNotFound(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected) && rejected.Status == http.StatusNotFound
}
