package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

// toast is a transient notification.
type toast struct {
	id    int
	level toastLevel
	text  string
}

type toastExpiredMsg struct{ id int }

// notify queues a toast and schedules its removal.
func (m *Model) notify(level toastLevel, text string) tea.Cmd {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, level: level, text: text})
	if len(m.toasts) > MaxToasts {
		m.toasts = m.toasts[len(m.toasts)-MaxToasts:]
	}
	return tea.Tick(ToastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) notifyErr(prefix string, err error) tea.Cmd {
	return m.notify(toastError, prefix+": "+describeErr(err))
}

func (m *Model) expireToast(id int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := styles.InfoText
		switch t.level {
		case toastSuccess:
			style = styles.SuccessText
		case toastError:
			style = styles.DangerText
		}
		lines = append(lines, style.Render("● "+t.text))
	}
	return strings.Join(lines, "\n")
}
