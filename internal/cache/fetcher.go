package cache

import (
	"context"
	"fmt"

	"github.com/fitdeck/fitdeck/internal/gateway"
)

// GatewayFetcher loads collections from the remote gateway.
type GatewayFetcher struct {
	Gateway gateway.Gateway
}

// Fetch implements Fetcher.
func (f GatewayFetcher) Fetch(ctx context.Context, c Collection) (any, error) {
	switch c {
	case Profile:
		return f.Gateway.GetCallerUserProfile(ctx)
	case Workouts:
		return f.Gateway.GetWorkouts(ctx)
	case Goals:
		return f.Gateway.GetGoals(ctx)
	case Meals:
		return f.Gateway.GetMeals(ctx)
	case Activities:
		return f.Gateway.GetAllActivities(ctx)
	default:
		return nil, fmt.Errorf("fetch: unknown collection %d", int(c))
	}
}
