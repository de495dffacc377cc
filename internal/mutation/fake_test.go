package mutation

import (
	"context"
	"sync"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
)

// fakeGateway records write calls and fails them with err when set.
type fakeGateway struct {
	gateway.Unavailable

	mu    sync.Mutex
	calls []string
	err   error
	// block, when non-nil, holds every write until it is closed.
	block chan struct{}
}

func (g *fakeGateway) record(op string) error {
	g.mu.Lock()
	g.calls = append(g.calls, op)
	err, block := g.err, g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) SaveWorkout(context.Context, fitness.Workout) error {
	return g.record("saveWorkout")
}

func (g *fakeGateway) DeleteWorkout(context.Context, string) error {
	return g.record("deleteWorkout")
}

func (g *fakeGateway) SaveGoal(context.Context, fitness.Goal) error {
	return g.record("saveGoal")
}

func (g *fakeGateway) DeleteGoal(context.Context, string) error {
	return g.record("deleteGoal")
}

func (g *fakeGateway) SaveMeal(context.Context, string, fitness.Photo, fitness.Nutrition) error {
	return g.record("saveMeal")
}

func (g *fakeGateway) DeleteMeal(context.Context, string) error {
	return g.record("deleteMeal")
}

func (g *fakeGateway) SaveCallerUserProfile(context.Context, fitness.Profile) error {
	return g.record("saveProfile")
}

func (g *fakeGateway) StartActivity(context.Context, string, fitness.ActivityType) error {
	return g.record("startActivity")
}

func (g *fakeGateway) EndActivity(_ context.Context, id string, r fitness.ActivityResult) (fitness.Activity, error) {
	if err := g.record("endActivity"); err != nil {
		return fitness.Activity{}, err
	}
	return fitness.Activity{ID: id, ActivityType: fitness.Run, Steps: r.Steps, DurationMinutes: r.DurationMinutes}, nil
}

func (g *fakeGateway) DeleteAllUserData(context.Context) error {
	return g.record("deleteAll")
}
