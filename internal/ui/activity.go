package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/derive"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/session"
)

func (m Model) activityRow(a fitness.Activity) string {
	when := fitness.TimeFromNanos(a.StartTime).Local().Format(dayLayout)
	if a.IsActive {
		return fmt.Sprintf("%s  %-6s  in progress", when, a.ActivityType)
	}
	return fmt.Sprintf("%s  %-6s  %5.1f min  %s  %d steps  %.0f kcal",
		when, a.ActivityType, a.DurationMinutes,
		derive.FormatDistance(a.DistanceKm, m.units()), a.Steps, a.Calories)
}

func (m Model) activitySummary(a fitness.Activity) string {
	return fmt.Sprintf("%s, %.1f min, %s", a.ActivityType, a.DurationMinutes, derive.FormatDistance(a.DistanceKm, m.units()))
}

func (m Model) sortedActivities() []fitness.Activity {
	return derive.RecentActivities(m.snapshot.Activities, -1)
}

func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Live tracking"))
	b.WriteString("\n")

	if m.tracking {
		s := m.session
		live := session.SimulateMetrics(s.ActivityType, s.Elapsed)
		b.WriteString(styles.Badge(string(s.ActivityType)).Render(string(s.ActivityType)))
		b.WriteString("  ")
		b.WriteString(styles.Text.Bold(true).Render(session.FormatElapsed(s.Elapsed)))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d steps · %s · %.0f kcal",
			live.Steps, derive.FormatDistance(live.DistanceKm, m.units()), live.Calories)))
		b.WriteString("\n")
		if s.Pending {
			b.WriteString(styles.WarningText.Render("Saving…"))
		} else {
			b.WriteString(styles.FaintText.Render("s stop and save"))
		}
	} else {
		b.WriteString(styles.Text.Render("Type: "))
		for _, t := range fitness.ActivityTypes {
			label := string(t)
			if t == m.prefs.ActivityType {
				b.WriteString(styles.Badge(label).Render(label))
			} else {
				b.WriteString(styles.FaintText.Padding(0, 1).Render(label))
			}
		}
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("a change type · s start tracking"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderTitle("History", cache.Activities))
	b.WriteString("\n")
	activities := m.sortedActivities()
	if len(activities) == 0 {
		b.WriteString(m.emptyState("No activities yet."))
		return b.String()
	}
	rows := make([]string, len(activities))
	for i, a := range activities {
		rows[i] = m.activityRow(a)
	}
	b.WriteString(m.renderRows(rows, m.cursor[ViewActivity], m.contentHeight()-8))
	return b.String()
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(m.snapshot.Activities)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.StartStop):
		if m.tracker == nil {
			return m, nil
		}
		if m.tracker.State() == session.Tracking {
			return m, m.stopActivity()
		}
		return m, m.startActivity(m.prefs.ActivityType)
	case key.Matches(msg, m.keys.ActivityType):
		if m.tracking {
			return m, nil
		}
		m.prefs.ActivityType = nextActivityType(m.prefs.ActivityType)
		m.savePrefs()
	}
	return m, nil
}

func nextActivityType(current fitness.ActivityType) fitness.ActivityType {
	for i, t := range fitness.ActivityTypes {
		if t == current {
			return fitness.ActivityTypes[(i+1)%len(fitness.ActivityTypes)]
		}
	}
	return fitness.ActivityTypes[0]
}
