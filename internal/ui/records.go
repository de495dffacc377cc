package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/derive"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/mutation"
)

const dayLayout = "Jan 02 15:04"

func (m Model) workoutRow(w fitness.Workout) string {
	when := fitness.TimeFromNanos(w.Date).Local().Format(dayLayout)
	sets := 0
	for _, ex := range w.Exercises {
		sets += len(ex.Sets)
	}
	return fmt.Sprintf("%s  %s  %3d min  %d exercises, %d sets",
		when, padRight(truncate(w.Name, 28), 28), w.Duration, len(w.Exercises), sets)
}

// Workouts

func (m Model) sortedWorkouts() []fitness.Workout {
	return derive.RecentWorkouts(m.snapshot.Workouts, -1)
}

func (m Model) renderWorkouts() string {
	workouts := m.sortedWorkouts()
	var b strings.Builder
	b.WriteString(m.renderTitle("Workouts", cache.Workouts))
	b.WriteString("\n\n")
	if len(workouts) == 0 {
		b.WriteString(m.emptyState("No workouts logged yet. Press n to log one."))
		return b.String()
	}

	cursor := m.cursor[ViewWorkouts]
	rows := make([]string, len(workouts))
	for i, w := range workouts {
		rows[i] = m.workoutRow(w)
	}
	b.WriteString(m.renderRows(rows, cursor, m.contentHeight()/2))
	if cursor >= 0 && cursor < len(workouts) {
		b.WriteString("\n\n")
		b.WriteString(m.workoutDetail(workouts[cursor]))
	}
	return b.String()
}

func (m Model) workoutDetail(w fitness.Workout) string {
	styles := m.theme.Styles()
	units := m.units()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(w.Name))
	for _, ex := range w.Exercises {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render(ex.Name))
		for i, set := range ex.Sets {
			line := fmt.Sprintf("  set %d: %d reps @ %s", i+1, set.Reps, derive.FormatWeight(set.Weight, units))
			if set.RPE != nil {
				line += fmt.Sprintf(" (RPE %.1f)", *set.RPE)
			}
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render(line))
		}
	}
	if w.Notes != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(w.Notes))
	}
	return b.String()
}

func (m Model) handleWorkoutsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	workouts := m.sortedWorkouts()
	if m.moveCursor(msg, len(workouts)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.New):
		m.modal = m.newWorkoutForm()
	case key.Matches(msg, m.keys.Delete):
		if i := m.selected(len(workouts)); i >= 0 {
			w := workouts[i]
			m.modal = newConfirmModal("Delete workout",
				m.dispatch(mutation.DeleteWorkout{ID: w.ID}, "Workout deleted", "Failed to delete workout"),
				fmt.Sprintf("Delete %q?", w.Name))
		}
	}
	return m, nil
}

// Goals

func (m Model) renderGoals() string {
	goals := m.snapshot.Goals
	now := m.now()
	var b strings.Builder
	b.WriteString(m.renderTitle("Goals", cache.Goals))
	b.WriteString("\n\n")
	if len(goals) == 0 {
		b.WriteString(m.emptyState("No goals yet. Press n to set one."))
		return b.String()
	}

	rows := make([]string, len(goals))
	for i, g := range goals {
		state := "ended"
		if derive.IsGoalActive(g, now) {
			state = "active"
		}
		end := fitness.TimeFromNanos(g.EndDate).Local().Format(dateLayout)
		rows[i] = fmt.Sprintf("%s  %-17s  until %s (%s)", m.goalRow(g), splitWords(string(g.GoalType)), end, state)
	}
	b.WriteString(m.renderRows(rows, m.cursor[ViewGoals], m.contentHeight()-2))
	return b.String()
}

func (m Model) handleGoalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	goals := m.snapshot.Goals
	if m.moveCursor(msg, len(goals)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.New):
		m.modal = m.newGoalForm()
	case key.Matches(msg, m.keys.Delete):
		if i := m.selected(len(goals)); i >= 0 {
			g := goals[i]
			m.modal = newConfirmModal("Delete goal",
				m.dispatch(mutation.DeleteGoal{ID: g.ID}, "Goal deleted", "Failed to delete goal"),
				fmt.Sprintf("Delete %q?", g.Description))
		}
	}
	return m, nil
}

// Nutrition

func (m Model) renderNutrition() string {
	styles := m.theme.Styles()
	meals := m.snapshot.Meals
	var b strings.Builder
	b.WriteString(m.renderTitle("Nutrition", cache.Meals))
	b.WriteString("\n\n")
	if len(meals) == 0 {
		b.WriteString(m.emptyState("No meals logged yet. Press n to log one from a photo."))
		return b.String()
	}

	var total fitness.Nutrition
	rows := make([]string, len(meals))
	for i, meal := range meals {
		n := meal.Nutrition()
		for j := range total {
			total[j] += n[j]
		}
		rows[i] = nutritionRow(truncate(meal.ID, 8), n)
	}
	b.WriteString(styles.MutedText.Render(nutritionHeader()))
	b.WriteString("\n")
	b.WriteString(m.renderRows(rows, m.cursor[ViewNutrition], m.contentHeight()-6))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Bold(true).Render(nutritionRow("total", total)))
	return b.String()
}

func nutritionHeader() string {
	return fmt.Sprintf("%-8s  %8s %7s %7s %7s %7s %7s %8s", "meal", "kcal", "carbs", "protein", "fat", "fiber", "sugar", "sodium")
}

func nutritionRow(label string, n fitness.Nutrition) string {
	return fmt.Sprintf("%-8s  %8.0f %6.0fg %6.0fg %6.0fg %6.0fg %6.0fg %6.0fmg", label, n[0], n[1], n[2], n[3], n[4], n[5], n[6])
}

func (m Model) handleNutritionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	meals := m.snapshot.Meals
	if m.moveCursor(msg, len(meals)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.New):
		m.modal = m.newMealForm()
	case key.Matches(msg, m.keys.Delete):
		if i := m.selected(len(meals)); i >= 0 {
			meal := meals[i]
			m.modal = newConfirmModal("Delete meal",
				m.dispatch(mutation.DeleteMeal{ID: meal.ID}, "Meal deleted", "Failed to delete meal"),
				fmt.Sprintf("Delete the %.0f kcal meal?", meal.Calories))
		}
	case key.Matches(msg, m.keys.Photo):
		if i := m.selected(len(meals)); i >= 0 {
			return m, m.savePhoto(meals[i])
		}
	}
	return m, nil
}
