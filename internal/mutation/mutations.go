package mutation

import (
	"context"
	"strings"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
)

// Mutation is one remote write. Validate runs before any I/O.
type Mutation interface {
	Kind() Kind
	Validate() error
	Apply(ctx context.Context, gw gateway.Gateway) (Result, error)
}

// Result carries what a successful mutation returned.
type Result struct {
	Kind Kind
	// Activity is set by EndActivity.
	Activity *fitness.Activity
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &fitness.ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

// SaveWorkout creates or replaces a workout.
type SaveWorkout struct {
	Workout fitness.Workout
}

func (SaveWorkout) Kind() Kind { return KindSaveWorkout }

func (m SaveWorkout) Validate() error {
	return m.Workout.Normalize().Validate()
}

func (m SaveWorkout) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindSaveWorkout}, gw.SaveWorkout(ctx, m.Workout.Normalize())
}

// DeleteWorkout removes a workout.
type DeleteWorkout struct {
	ID string
}

func (DeleteWorkout) Kind() Kind        { return KindDeleteWorkout }
func (m DeleteWorkout) Validate() error { return requireID(m.ID) }

func (m DeleteWorkout) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindDeleteWorkout}, gw.DeleteWorkout(ctx, m.ID)
}

// SaveGoal creates or replaces a goal. Progress is never sent except as
// zero at creation.
type SaveGoal struct {
	Goal fitness.Goal
}

func (SaveGoal) Kind() Kind { return KindSaveGoal }

func (m SaveGoal) Validate() error {
	return m.goal().Validate()
}

func (m SaveGoal) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindSaveGoal}, gw.SaveGoal(ctx, m.goal())
}

func (m SaveGoal) goal() fitness.Goal {
	g := m.Goal
	g.Description = strings.TrimSpace(g.Description)
	g.Progress = 0
	return g
}

// DeleteGoal removes a goal.
type DeleteGoal struct {
	ID string
}

func (DeleteGoal) Kind() Kind        { return KindDeleteGoal }
func (m DeleteGoal) Validate() error { return requireID(m.ID) }

func (m DeleteGoal) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindDeleteGoal}, gw.DeleteGoal(ctx, m.ID)
}

// SaveMeal uploads a photo with its nutrition values.
type SaveMeal struct {
	ID        string
	Photo     fitness.Photo
	Nutrition fitness.Nutrition
}

func (SaveMeal) Kind() Kind { return KindSaveMeal }

func (m SaveMeal) Validate() error {
	return fitness.NewMeal(m.ID, m.Photo, m.Nutrition).Validate()
}

func (m SaveMeal) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindSaveMeal}, gw.SaveMeal(ctx, m.ID, m.Photo, m.Nutrition)
}

// DeleteMeal removes a meal.
type DeleteMeal struct {
	ID string
}

func (DeleteMeal) Kind() Kind        { return KindDeleteMeal }
func (m DeleteMeal) Validate() error { return requireID(m.ID) }

func (m DeleteMeal) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindDeleteMeal}, gw.DeleteMeal(ctx, m.ID)
}

// StartActivity creates an activity in the active state.
type StartActivity struct {
	ID           string
	ActivityType fitness.ActivityType
}

func (StartActivity) Kind() Kind { return KindStartActivity }

func (m StartActivity) Validate() error {
	if err := requireID(m.ID); err != nil {
		return err
	}
	if !m.ActivityType.Valid() {
		return &fitness.ValidationError{Field: "activityType", Reason: "choose walk, run or cycle"}
	}
	return nil
}

func (m StartActivity) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindStartActivity}, gw.StartActivity(ctx, m.ID, m.ActivityType)
}

// EndActivity finalizes an active activity with its metrics.
type EndActivity struct {
	ID     string
	Result fitness.ActivityResult
}

func (EndActivity) Kind() Kind { return KindEndActivity }

func (m EndActivity) Validate() error {
	if err := requireID(m.ID); err != nil {
		return err
	}
	return m.Result.Validate()
}

func (m EndActivity) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	activity, err := gw.EndActivity(ctx, m.ID, m.Result)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindEndActivity, Activity: &activity}, nil
}

// SaveProfile creates or updates the caller's profile.
type SaveProfile struct {
	Profile fitness.Profile
}

func (SaveProfile) Kind() Kind { return KindSaveProfile }

func (m SaveProfile) Validate() error {
	return m.profile().Validate()
}

func (m SaveProfile) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindSaveProfile}, gw.SaveCallerUserProfile(ctx, m.profile())
}

func (m SaveProfile) profile() fitness.Profile {
	p := m.Profile
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	return p
}

// DeleteAll wipes every record the caller owns.
type DeleteAll struct{}

func (DeleteAll) Kind() Kind      { return KindDeleteAll }
func (DeleteAll) Validate() error { return nil }

func (DeleteAll) Apply(ctx context.Context, gw gateway.Gateway) (Result, error) {
	return Result{Kind: KindDeleteAll}, gw.DeleteAllUserData(ctx)
}
