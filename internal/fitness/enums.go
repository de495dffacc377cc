package fitness

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Units selects how canonical metric values are displayed.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits converts a wire value into Units.
func ParseUnits(value string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(value))); u {
	case Metric, Imperial:
		return u, nil
	}
	return "", fmt.Errorf("unknown units %q", value)
}

// Valid reports whether u is a known variant.
func (u Units) Valid() bool {
	return u == Metric || u == Imperial
}

// UnmarshalJSON rejects unknown variants.
func (u *Units) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, func(s string) error {
		parsed, err := ParseUnits(s)
		*u = parsed
		return err
	})
}

// ActivityType is the kind of tracked activity.
type ActivityType string

const (
	Walk  ActivityType = "walk"
	Run   ActivityType = "run"
	Cycle ActivityType = "cycle"
)

// ActivityTypes lists every activity type in display order.
var ActivityTypes = []ActivityType{Walk, Run, Cycle}

// ParseActivityType converts a wire value into an ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	switch t := ActivityType(strings.ToLower(strings.TrimSpace(value))); t {
	case Walk, Run, Cycle:
		return t, nil
	}
	return "", fmt.Errorf("unknown activity type %q", value)
}

// Valid reports whether t is a known variant.
func (t ActivityType) Valid() bool {
	_, err := ParseActivityType(string(t))
	return err == nil
}

// UnmarshalJSON rejects unknown variants.
func (t *ActivityType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, func(s string) error {
		parsed, err := ParseActivityType(s)
		*t = parsed
		return err
	})
}

// GoalType is what a goal measures.
type GoalType string

const (
	GoalDuration        GoalType = "duration"
	GoalCalories        GoalType = "calories"
	GoalDistance        GoalType = "distance"
	GoalWorkoutsPerWeek GoalType = "workoutsPerWeek"
	GoalSteps           GoalType = "steps"
)

// GoalTypes lists every goal type in display order.
var GoalTypes = []GoalType{GoalDuration, GoalCalories, GoalDistance, GoalWorkoutsPerWeek, GoalSteps}

// ParseGoalType converts a wire value into a GoalType.
func ParseGoalType(value string) (GoalType, error) {
	trimmed := strings.TrimSpace(value)
	for _, t := range GoalTypes {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown goal type %q", value)
}

// Valid reports whether t is a known variant.
func (t GoalType) Valid() bool {
	_, err := ParseGoalType(string(t))
	return err == nil
}

// UnmarshalJSON rejects unknown variants.
func (t *GoalType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, func(s string) error {
		parsed, err := ParseGoalType(s)
		*t = parsed
		return err
	})
}

// Role is the caller's access level reported by the identity check.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// ParseRole converts a wire value into a Role.
func ParseRole(value string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(value))); r {
	case RoleAdmin, RoleUser, RoleGuest:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// UnmarshalJSON rejects unknown variants.
func (r *Role) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, func(s string) error {
		parsed, err := ParseRole(s)
		*r = parsed
		return err
	})
}

func unmarshalEnum(data []byte, parse func(string) error) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return parse(raw)
}
