package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitdeck/fitdeck/internal/derive"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/mutation"
	"github.com/fitdeck/fitdeck/internal/nutrition"
)

const dateLayout = "2006-01-02"

func invalidInput(field, reason string) error {
	return &fitness.ValidationError{Field: field, Reason: reason}
}

func parseInt(field, value string) (int64, error) {
	if value == "" {
		return 0, invalidInput(field, "fill in all fields")
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, invalidInput(field, fmt.Sprintf("%s must be a whole number", field))
	}
	return n, nil
}

func parseFloat(field, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, invalidInput(field, fmt.Sprintf("%s must be a number", field))
	}
	return f, nil
}

// parseExercises reads "Bench 3x8@60; Squat 5x5@100". Each entry is a name
// followed by sets x reps with an optional @weight in the given units; the
// weight is stored in kilograms.
func parseExercises(value string, units fitness.Units) ([]fitness.Exercise, error) {
	var out []fitness.Exercise
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, " ")
		if idx < 0 {
			return nil, invalidInput("exercises", fmt.Sprintf("%q needs sets like 3x8@60", part))
		}
		name, rest := strings.TrimSpace(part[:idx]), part[idx+1:]

		weight := 0.0
		if at := strings.Index(rest, "@"); at >= 0 {
			w, err := strconv.ParseFloat(rest[at+1:], 64)
			if err != nil {
				return nil, invalidInput("exercises", fmt.Sprintf("bad weight in %q", part))
			}
			weight = derive.ConvertWeight(w, units, fitness.Metric)
			rest = rest[:at]
		}
		setsStr, repsStr, ok := strings.Cut(strings.ToLower(rest), "x")
		if !ok {
			return nil, invalidInput("exercises", fmt.Sprintf("%q needs sets like 3x8@60", part))
		}
		sets, err1 := strconv.Atoi(setsStr)
		reps, err2 := strconv.ParseInt(repsStr, 10, 64)
		if err1 != nil || err2 != nil || sets <= 0 {
			return nil, invalidInput("exercises", fmt.Sprintf("bad sets in %q", part))
		}

		ex := fitness.Exercise{Name: name, Sets: make([]fitness.Set, sets)}
		for i := range ex.Sets {
			ex.Sets[i] = fitness.Set{Weight: weight, Reps: reps}
		}
		out = append(out, ex)
	}
	return out, nil
}

func (m Model) units() fitness.Units {
	return derive.UnitsOf(m.snapshot.Profile)
}

func (m Model) newWorkoutForm() Modal {
	units := m.units()
	return newFormModal("Log workout", func(v []string) (tea.Cmd, error) {
		if v[0] == "" {
			return nil, invalidInput("name", "enter a workout name")
		}
		duration, err := parseInt("duration", v[1])
		if err != nil {
			return nil, err
		}
		exercises, err := parseExercises(v[2], units)
		if err != nil {
			return nil, err
		}
		mut := mutation.SaveWorkout{Workout: fitness.Workout{
			ID:        m.newID(),
			Name:      v[0],
			Date:      fitness.NanosFromTime(m.now()),
			Duration:  duration,
			Exercises: exercises,
			Notes:     v[3],
		}}
		if err := mut.Validate(); err != nil {
			return nil, err
		}
		return m.dispatch(mut, "Workout saved", "Failed to save workout"), nil
	},
		newField("Name", "Push day", ""),
		newField("Duration", "minutes", "60"),
		newField("Exercises", "Bench 3x8@"+weightHint(units)+"; Squat 5x5", ""),
		newField("Notes", "optional", ""),
	)
}

func weightHint(units fitness.Units) string {
	if units == fitness.Imperial {
		return "135"
	}
	return "60"
}

func (m Model) newGoalForm() Modal {
	now := m.now()
	f := newFormModal("New goal", func(v []string) (tea.Cmd, error) {
		if v[0] == "" || v[2] == "" || v[3] == "" {
			return nil, invalidInput("goal", "fill in all fields")
		}
		goalType, err := fitness.ParseGoalType(v[1])
		if err != nil {
			return nil, invalidInput("goalType", err.Error())
		}
		target, err := parseInt("target", v[2])
		if err != nil {
			return nil, err
		}
		end, err := time.ParseInLocation(dateLayout, v[3], time.Local)
		if err != nil {
			return nil, invalidInput("endDate", "use YYYY-MM-DD")
		}
		mut := mutation.SaveGoal{Goal: fitness.Goal{
			ID:          m.newID(),
			Description: v[0],
			GoalType:    goalType,
			Target:      target,
			StartDate:   fitness.NanosFromTime(now),
			EndDate:     fitness.NanosFromTime(end),
		}}
		if err := mut.Validate(); err != nil {
			return nil, err
		}
		return m.dispatch(mut, "Goal created", "Failed to create goal"), nil
	},
		newField("Description", "Train four times a week", ""),
		newField("Type", goalTypeHint(), string(fitness.GoalWorkoutsPerWeek)),
		newField("Target", "4", ""),
		newField("End date", dateLayout, now.AddDate(0, 1, 0).Format(dateLayout)),
	)
	return f
}

func goalTypeHint() string {
	names := make([]string, len(fitness.GoalTypes))
	for i, t := range fitness.GoalTypes {
		names[i] = string(t)
	}
	return strings.Join(names, "|")
}

// meal form field order: photo then nutrients in gateway order.
var mealLabels = [...]string{"Calories", "Carbs", "Protein", "Fat", "Fiber", "Sugar", "Sodium"}

func (m Model) newMealForm() Modal {
	fields := []formField{newField("Photo", "path to meal photo", "")}
	for _, label := range mealLabels {
		unit := "g"
		switch label {
		case "Calories":
			unit = "kcal"
		case "Sodium":
			unit = "mg"
		}
		fields = append(fields, newField(label, unit, ""))
	}

	f := newFormModal("Log meal", func(v []string) (tea.Cmd, error) {
		if v[0] == "" {
			return nil, invalidInput("photo", "upload a photo")
		}
		data, err := os.ReadFile(v[0])
		if err != nil {
			return nil, invalidInput("photo", fmt.Sprintf("read photo: %v", err))
		}
		var n fitness.Nutrition
		for i := range n {
			if n[i], err = parseFloat(strings.ToLower(mealLabels[i]), v[i+1]); err != nil {
				return nil, err
			}
		}
		mut := mutation.SaveMeal{ID: m.newID(), Photo: fitness.Photo{Data: data}, Nutrition: n}
		if err := mut.Validate(); err != nil {
			return nil, err
		}
		return m.dispatch(mut, "Meal saved", "Failed to save meal"), nil
	}, fields...)
	f.leave = prefillEstimate
	return f
}

// prefillEstimate fills empty nutrient fields from the photo's file name
// when focus leaves the photo field.
func prefillEstimate(f *formModal, idx int) {
	if idx != 0 {
		return
	}
	path := strings.TrimSpace(f.fields[0].input.Value())
	if path == "" {
		return
	}
	for _, v := range f.values()[1:] {
		if v != "" {
			return
		}
	}
	n := nutrition.FromFileName(filepath.Base(path)).Nutrition()
	for i, v := range n {
		f.setValue(i+1, strconv.FormatFloat(v, 'f', -1, 64))
	}
	f.note = "Estimate generated from the photo; review and adjust."
}

func (m Model) newProfileForm(title string) Modal {
	name, units := "", fitness.Metric
	if p := m.snapshot.Profile; p != nil {
		name, units = p.DisplayName, p.Units
	}
	return newFormModal(title, func(v []string) (tea.Cmd, error) {
		if v[0] == "" {
			return nil, invalidInput("displayName", "enter your name")
		}
		u, err := fitness.ParseUnits(v[1])
		if err != nil {
			return nil, invalidInput("units", "choose metric or imperial")
		}
		mut := mutation.SaveProfile{Profile: fitness.Profile{DisplayName: v[0], Units: u}}
		return m.dispatch(mut, "Profile updated", "Failed to update profile"), nil
	},
		newField("Name", "Your name", name),
		newField("Units", "metric|imperial", string(units)),
	)
}
