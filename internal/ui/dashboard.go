package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/derive"
	"github.com/fitdeck/fitdeck/internal/fitness"
)

func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	now := m.now()
	units := m.units()

	stats := derive.Dashboard(derive.Inputs{
		Workouts:   snap.Workouts,
		Meals:      snap.Meals,
		Activities: snap.Activities,
		Goals:      snap.Goals,
	}, now)

	greeting := "Welcome"
	if snap.Profile != nil {
		greeting = "Welcome back, " + snap.Profile.DisplayName
	}

	cards := []string{
		m.statCard("Workouts this week", fmt.Sprint(stats.WeekWorkouts), snap.Loaded(cache.Workouts)),
		m.statCard("Activities this week", fmt.Sprint(stats.WeekActivities), snap.Loaded(cache.Activities)),
		m.statCard("Total steps", fmt.Sprint(stats.TotalSteps), snap.Loaded(cache.Activities)),
		m.statCard("Distance", derive.FormatDistance(stats.TotalDistance, units), snap.Loaded(cache.Activities)),
		m.statCard("Meal calories", fmt.Sprintf("%.0f kcal (%d meals)", stats.TotalCalories, stats.Meals), snap.Loaded(cache.Meals)),
		m.statCard("Active goals", fmt.Sprint(stats.ActiveGoals), snap.Loaded(cache.Goals)),
	}
	var grid string
	if m.width < LayoutCompactWidth {
		grid = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5]),
		)
	} else {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(greeting))
	b.WriteString("\n")
	b.WriteString(grid)
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Recent activities"))
	b.WriteString("\n")
	recent := derive.RecentActivities(snap.Activities, RecentLimit)
	if len(recent) == 0 {
		b.WriteString(m.emptyState("No activities yet. Start one from the Activity view."))
	}
	for _, a := range recent {
		b.WriteString(m.activityRow(a))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Recent workouts"))
	b.WriteString("\n")
	workouts := derive.RecentWorkouts(snap.Workouts, RecentLimit)
	if len(workouts) == 0 {
		b.WriteString(m.emptyState("No workouts logged yet."))
	}
	for _, w := range workouts {
		b.WriteString(m.workoutRow(w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Active goals"))
	b.WriteString("\n")
	active := derive.ActiveGoals(snap.Goals, now)
	if len(active) == 0 {
		b.WriteString(m.emptyState("No active goals."))
	}
	for _, g := range active {
		b.WriteString(m.goalRow(g))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) statCard(label, value string, loaded bool) string {
	styles := m.theme.Styles()
	if !loaded {
		value = "…"
	}
	return styles.Card.Width(22).Render(
		styles.MutedText.Render(label) + "\n" + styles.Text.Bold(true).Render(value),
	)
}

// progressBar renders pct (0-100) as a fixed-width bar.
func (m Model) progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Success))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BorderMuted))
	return fill.Render(strings.Repeat("█", filled)) + rest.Render(strings.Repeat("░", width-filled))
}

func (m Model) goalRow(g fitness.Goal) string {
	pct := derive.ProgressPercent(g)
	return fmt.Sprintf("%s %5.1f%%  %s  %d/%d %s",
		m.progressBar(pct, 20), pct,
		padRight(truncate(g.Description, 32), 32),
		g.Progress, g.Target, derive.GoalUnit(g.GoalType))
}
