package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/session"
)

// renderMain renders header, command bar, content and toasts.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	content := lipgloss.NewStyle().
		Width(m.width).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Render(m.renderContent())
	b.WriteString(content)

	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewWorkouts:
		return m.renderWorkouts()
	case ViewGoals:
		return m.renderGoals()
	case ViewNutrition:
		return m.renderNutrition()
	case ViewActivity:
		return m.renderActivity()
	case ViewSettings:
		return m.renderSettings()
	case ViewLogs:
		return m.renderLogs()
	}
	return ""
}

// renderHeader shows the logo, the caller and the sync state.
func (m Model) renderHeader() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	parts := []string{bg.Render("fitdeck", styles.Logo)}

	name := "not signed in"
	if p := m.snapshot.Profile; p != nil {
		name = p.DisplayName
	}
	parts = append(parts, bg.Render(name, styles.Text))
	if m.role != "" {
		parts = append(parts, styles.Badge(string(m.role)).Render(string(m.role)))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, styles.Badge("offline").Render("offline"))
	case m.syncing():
		parts = append(parts, styles.Badge("loading").Render("syncing"))
	}
	if m.tracking {
		label := fmt.Sprintf("%s %s", m.session.ActivityType, session.FormatElapsed(m.session.Elapsed))
		parts = append(parts, styles.Badge("tracking").Render(label))
	}

	line := bg.Join(parts, "  ")
	return styles.Header.Width(m.width).Render(line)
}

func (m Model) syncing() bool {
	for _, c := range cache.All {
		if m.snapshot.Status(c).InFlight {
			return true
		}
	}
	return false
}

// renderCommandBar lists the views with the active one highlighted.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	active := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.FocusBg)).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Padding(0, 1)
	inactive := styles.MutedText.Padding(0, 1)

	tabs := make([]string, 0, numViews)
	for v := View(0); v < numViews; v++ {
		label := fmt.Sprintf("%d %s", v+1, v)
		if v == m.currentView {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	hints := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+strings.ToLower(h.Desc))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(tabs, ""),
		styles.FaintText.Render("   "+strings.Join(hints, " · ")),
	)
}

// freshnessLabel summarizes a collection's status for a view title.
func freshnessLabel(st cache.Status) string {
	switch {
	case st.Freshness == cache.Absent && st.InFlight:
		return "loading"
	case st.LastError != nil:
		return "failed"
	case st.Freshness == cache.Stale:
		return "stale"
	case st.Freshness == cache.Fresh:
		return "fresh"
	}
	return ""
}

// renderTitle renders a view title with the collection's freshness badge.
func (m Model) renderTitle(title string, c cache.Collection) string {
	styles := m.theme.Styles()
	out := styles.AccentText.Bold(true).Render(title)
	if label := freshnessLabel(m.snapshot.Status(c)); label != "" {
		out += " " + styles.Badge(label).Render(label)
	}
	if err := m.snapshot.Status(c).LastError; err != nil {
		out += " " + styles.DangerText.Render(truncate(describeErr(err), 60))
	}
	return out
}

// renderRows renders a selectable list, windowed around the cursor.
func (m Model) renderRows(rows []string, cursor, height int) string {
	styles := m.theme.Styles()
	if len(rows) == 0 {
		return ""
	}
	start := 0
	if height > 0 && cursor >= height {
		start = cursor - height + 1
	}
	end := len(rows)
	if height > 0 && end > start+height {
		end = start + height
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		line := padRight(rows[i], m.width-2)
		if i == cursor {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) emptyState(text string) string {
	return m.theme.Styles().MutedText.Render(text)
}
