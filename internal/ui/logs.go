package ui

import (
	"strings"

	"github.com/fitdeck/fitdeck/internal/logtail"
)

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Logs") + " " + styles.FaintText.Render(m.config.LogFile)
	if m.logErr != nil {
		return title + "\n\n" + styles.DangerText.Render(m.logErr.Error())
	}
	if m.logViewport.TotalLineCount() == 0 {
		return title + "\n\n" + m.emptyState("Nothing logged yet.")
	}
	return title + "\n" + m.logViewport.View()
}

func (m Model) renderLogLines(entries []logtail.Entry) string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		ts := "                   "
		if !e.Time.IsZero() {
			ts = e.Time.Format("2006-01-02 15:04:05")
		}
		style := styles.Text
		switch e.Level {
		case logtail.LevelWarn:
			style = styles.WarningText
		case logtail.LevelError:
			style = styles.DangerText
		}
		lines = append(lines, styles.FaintText.Render(ts)+" "+style.Render(e.Message))
	}
	return strings.Join(lines, "\n")
}
