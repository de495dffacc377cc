package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/mutation"
)

func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	row := func(label, value string) string {
		return styles.MutedText.Render(padRight(label, 14)) + styles.Text.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.renderTitle("Profile", cache.Profile))
	b.WriteString("\n\n")
	if p := m.snapshot.Profile; p != nil {
		b.WriteString(row("Name", p.DisplayName))
		b.WriteString(row("Units", string(p.Units)))
	} else {
		b.WriteString(m.emptyState("No profile yet."))
		b.WriteString("\n")
	}
	b.WriteString(row("Role", string(m.role)))
	b.WriteString(styles.FaintText.Render("e edit profile · u toggle units"))

	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Data"))
	b.WriteString("\n\n")
	b.WriteString(row("Service", m.config.APIURL))
	b.WriteString(row("Export to", m.config.ExportDir))
	b.WriteString(row("Theme", m.theme.Name))
	b.WriteString(styles.FaintText.Render("x export all data · D delete all data · T cycle theme"))
	if m.dispatcher != nil && m.dispatcher.Pending(mutation.KindDeleteAll) {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("Deleting…"))
	}
	return b.String()
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.EditProfile):
		m.modal = m.newProfileForm("Edit profile")
	case key.Matches(msg, m.keys.ToggleUnits):
		p := m.snapshot.Profile
		if p == nil {
			m.modal = m.newProfileForm("Set up your profile")
			return m, nil
		}
		next := *p
		next.Units = fitness.Imperial
		if p.Units == fitness.Imperial {
			next.Units = fitness.Metric
		}
		return m, m.dispatch(mutation.SaveProfile{Profile: next},
			fmt.Sprintf("Units set to %s", next.Units), "Failed to update profile")
	case key.Matches(msg, m.keys.Export):
		return m, m.exportData()
	case key.Matches(msg, m.keys.DeleteAll):
		m.modal = newConfirmModal("Delete all data",
			m.dispatch(mutation.DeleteAll{}, "All data deleted", "Failed to delete data"),
			"Delete every workout, meal, activity and goal?",
			"This cannot be undone. Are you absolutely sure?")
	}
	return m, nil
}
