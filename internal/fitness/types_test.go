package fitness

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestEnumsRejectUnknownVariants(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(`{"displayName":"Ana","units":"imperial"}`), &p); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if p.Units != Imperial {
		t.Fatalf("Units = %q, want imperial", p.Units)
	}
	if err := json.Unmarshal([]byte(`{"displayName":"Ana","units":"furlongs"}`), &p); err == nil {
		t.Fatalf("Unmarshal accepted unknown units")
	}

	var a Activity
	if err := json.Unmarshal([]byte(`{"id":"1","activityType":"swim"}`), &a); err == nil {
		t.Fatalf("Unmarshal accepted unknown activity type")
	}

	var g Goal
	if err := json.Unmarshal([]byte(`{"id":"1","goalType":"workoutsPerWeek"}`), &g); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if g.GoalType != GoalWorkoutsPerWeek {
		t.Fatalf("GoalType = %q, want workoutsPerWeek", g.GoalType)
	}
}

func TestParseHelpersNormalize(t *testing.T) {
	if u, err := ParseUnits(" Metric "); err != nil || u != Metric {
		t.Fatalf("ParseUnits = %q, %v; want metric", u, err)
	}
	if at, err := ParseActivityType("RUN"); err != nil || at != Run {
		t.Fatalf("ParseActivityType = %q, %v; want run", at, err)
	}
	if gt, err := ParseGoalType("workoutsperweek"); err != nil || gt != GoalWorkoutsPerWeek {
		t.Fatalf("ParseGoalType = %q, %v; want workoutsPerWeek", gt, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatalf("ParseRole accepted unknown role")
	}
}

func TestTimestampConversion(t *testing.T) {
	if got := MillisToNanos(1_700_000_000_123); got != 1_700_000_000_123_000_000 {
		t.Fatalf("MillisToNanos = %d", got)
	}
	if got := NanosToMillis(1_700_000_000_123_456_789); got != 1_700_000_000_123 {
		t.Fatalf("NanosToMillis = %d", got)
	}
	now := time.UnixMilli(1_700_000_000_123)
	if got := TimeFromNanos(NanosFromTime(now)); !got.Equal(now) {
		t.Fatalf("round trip = %v, want %v", got, now)
	}
	if !TimeFromNanos(0).IsZero() {
		t.Fatalf("TimeFromNanos(0) should be zero time")
	}
}

func TestMealNutritionOrder(t *testing.T) {
	n := Nutrition{500, 60, 30, 15, 8, 20, 700}
	meal := NewMeal("m1", Photo{URL: "/p/1"}, n)
	if meal.Carbs != 60 || meal.Protein != 30 || meal.Sodium != 700 {
		t.Fatalf("NewMeal = %#v, want carbs=60 protein=30 sodium=700", meal)
	}
	if meal.Nutrition() != n {
		t.Fatalf("Nutrition() = %v, want %v", meal.Nutrition(), n)
	}
}

func TestWorkoutNormalizeAndValidate(t *testing.T) {
	w := Workout{
		ID:   "w1",
		Name: "  Push day ",
		Exercises: []Exercise{
			{Name: " Bench ", Sets: []Set{{Weight: 60, Reps: 8}}},
			{Name: "  ", Sets: []Set{{Weight: 10, Reps: 10}}},
			{Name: "Dips"},
		},
	}.Normalize()

	if w.Name != "Push day" {
		t.Fatalf("Name = %q, want trimmed", w.Name)
	}
	if len(w.Exercises) != 1 || w.Exercises[0].Name != "Bench" {
		t.Fatalf("Exercises = %#v, want only Bench", w.Exercises)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	empty := Workout{ID: "w2", Name: "Legs"}.Normalize()
	var verr *ValidationError
	if err := empty.Validate(); !errors.As(err, &verr) || verr.Field != "exercises" {
		t.Fatalf("Validate error = %v, want exercises validation error", err)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"goal without description", Goal{ID: "g", Target: 1, EndDate: 2}.Validate(), "description"},
		{"goal zero target", Goal{ID: "g", Description: "x", GoalType: GoalSteps, EndDate: 2}.Validate(), "target"},
		{"goal ends before start", Goal{ID: "g", Description: "x", GoalType: GoalSteps, Target: 1, StartDate: 5, EndDate: 5}.Validate(), "endDate"},
		{"meal without photo", Meal{ID: "m", Calories: 100}.Validate(), "photo"},
		{"meal zero calories", Meal{ID: "m", Photo: Photo{URL: "u"}}.Validate(), "calories"},
		{"meal negative fat", Meal{ID: "m", Photo: Photo{URL: "u"}, Calories: 10, Fat: -1}.Validate(), "fat"},
		{"profile blank name", Profile{DisplayName: " ", Units: Metric}.Validate(), "displayName"},
		{"profile bad units", Profile{DisplayName: "Ana"}.Validate(), "units"},
		{"negative steps", ActivityResult{Steps: -1}.Validate(), "steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			if !errors.As(tt.err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", tt.err)
			}
			if verr.Field != tt.field {
				t.Fatalf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
