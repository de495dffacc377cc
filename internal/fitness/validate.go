package fitness

import (
	"fmt"
	"strings"
)

// ValidationError reports a local precondition failure. Nothing was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Normalize trims text fields and drops exercises without a name or sets.
func (w Workout) Normalize() Workout {
	w.Name = strings.TrimSpace(w.Name)
	w.Notes = strings.TrimSpace(w.Notes)
	kept := make([]Exercise, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		ex.Name = strings.TrimSpace(ex.Name)
		if ex.Name == "" || len(ex.Sets) == 0 {
			continue
		}
		kept = append(kept, ex)
	}
	w.Exercises = kept
	return w
}

// Validate checks a normalized workout.
func (w Workout) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return invalid("id", "required")
	}
	if strings.TrimSpace(w.Name) == "" {
		return invalid("name", "enter a workout name")
	}
	if len(w.Exercises) == 0 {
		return invalid("exercises", "add at least one exercise")
	}
	if w.Duration < 0 {
		return invalid("duration", "must not be negative")
	}
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			if set.Reps < 0 {
				return invalid("reps", "must not be negative")
			}
			if set.Weight < 0 {
				return invalid("weight", "must not be negative")
			}
		}
	}
	return nil
}

// Validate checks a goal before it is saved.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return invalid("id", "required")
	}
	if strings.TrimSpace(g.Description) == "" {
		return invalid("description", "fill in all fields")
	}
	if !g.GoalType.Valid() {
		return invalid("goalType", fmt.Sprintf("unknown goal type %q", g.GoalType))
	}
	if g.Target <= 0 {
		return invalid("target", "must be positive")
	}
	if g.EndDate <= 0 {
		return invalid("endDate", "required")
	}
	if g.EndDate <= g.StartDate {
		return invalid("endDate", "must be after the start date")
	}
	return nil
}

// Validate checks a meal before it is saved.
func (m Meal) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return invalid("id", "required")
	}
	if m.Photo.IsZero() {
		return invalid("photo", "upload a photo")
	}
	if m.Calories <= 0 {
		return invalid("calories", "enter valid nutrition values")
	}
	for i, v := range m.Nutrition() {
		if v < 0 {
			return invalid(nutrientNames[i], "must not be negative")
		}
	}
	return nil
}

var nutrientNames = [7]string{"calories", "carbs", "protein", "fat", "fiber", "sugar", "sodium"}

// Validate checks a profile before it is saved.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.DisplayName) == "" {
		return invalid("displayName", "enter your name")
	}
	if !p.Units.Valid() {
		return invalid("units", fmt.Sprintf("unknown units %q", p.Units))
	}
	return nil
}

// Validate checks the metrics supplied when ending an activity.
func (r ActivityResult) Validate() error {
	switch {
	case r.Steps < 0:
		return invalid("steps", "must not be negative")
	case r.Calories < 0:
		return invalid("calories", "must not be negative")
	case r.DistanceKm < 0:
		return invalid("distanceKm", "must not be negative")
	case r.DurationMinutes < 0:
		return invalid("durationMinutes", "must not be negative")
	}
	return nil
}
