package session

import (
	"fmt"
	"math"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// rates are per minute of tracked time.
type rates struct {
	steps    float64
	km       float64
	calories float64
}

func ratesFor(t fitness.ActivityType) rates {
	switch t {
	case fitness.Walk:
		return rates{steps: 100, km: 0.08, calories: 4}
	case fitness.Run:
		return rates{steps: 150, km: 0.15, calories: 10}
	case fitness.Cycle:
		return rates{steps: 0, km: 0.25, calories: 8}
	}
	panic("session: unknown activity type " + string(t))
}

// SimulateMetrics estimates the final metrics of an activity of type t that
// lasted elapsed. Steps round half to even.
func SimulateMetrics(t fitness.ActivityType, elapsed time.Duration) fitness.ActivityResult {
	r := ratesFor(t)
	minutes := elapsed.Seconds() / 60
	return fitness.ActivityResult{
		Steps:           int64(math.RoundToEven(r.steps * minutes)),
		DistanceKm:      r.km * minutes,
		Calories:        r.calories * minutes,
		DurationMinutes: minutes,
	}
}

// FormatElapsed renders d as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
