package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// formField is one labelled text input.
type formField struct {
	label string
	input textinput.Model
}

func newField(label, placeholder, value string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 32
	ti.Prompt = ""
	ti.SetValue(value)
	return formField{label: label, input: ti}
}

// submitFunc turns the field values into a command. A returned error keeps
// the form open and is shown under the fields.
type submitFunc func(values []string) (tea.Cmd, error)

// formModal is a vertical list of inputs submitted together.
type formModal struct {
	title  string
	fields []formField
	focus  int
	note   string
	err    string
	submit submitFunc
	// leave runs when focus moves off field idx.
	leave func(f *formModal, idx int)
}

func newFormModal(title string, submit submitFunc, fields ...formField) *formModal {
	f := &formModal{title: title, fields: fields, submit: submit}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *formModal) values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

func (f *formModal) setValue(idx int, value string) {
	if idx >= 0 && idx < len(f.fields) {
		f.fields[idx].input.SetValue(value)
	}
}

func (f *formModal) moveFocus(delta int) {
	if len(f.fields) == 0 {
		return
	}
	if f.leave != nil {
		f.leave(f, f.focus)
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *formModal) trySubmit() (Modal, tea.Cmd, bool) {
	if f.leave != nil {
		f.leave(f, f.focus)
	}
	cmd, err := f.submit(f.values())
	if err != nil {
		f.err = describeErr(err)
		return f, nil, false
	}
	return f, cmd, true
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Cancel):
		return f, nil, true
	case key.Matches(keyMsg, keys.Submit):
		return f.trySubmit()
	case key.Matches(keyMsg, keys.Confirm):
		if f.focus == len(f.fields)-1 {
			return f.trySubmit()
		}
		f.moveFocus(1)
		return f, nil, false
	case key.Matches(keyMsg, keys.NextField):
		f.moveFocus(1)
		return f, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		f.moveFocus(-1)
		return f, nil, false
	}
	if len(f.fields) == 0 {
		return f, nil, false
	}
	f.err = ""
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(keyMsg)
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = maxInt(labelWidth, len(field.label))
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := padRight(field.label, labelWidth+2)
		if i == f.focus {
			b.WriteString(styles.WarningText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}
	if f.note != "" {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render(f.note))
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("tab next · enter/ctrl+s save · esc cancel"))

	return placeModal(theme, width, height, b.String())
}

// confirmModal asks one question per step; the action runs after the last yes.
type confirmModal struct {
	title   string
	prompts []string
	step    int
	action  tea.Cmd
}

func newConfirmModal(title string, action tea.Cmd, prompts ...string) *confirmModal {
	return &confirmModal{title: title, prompts: prompts, action: action}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		c.step++
		if c.step >= len(c.prompts) {
			return c, c.action, true
		}
		return c, nil, false
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render(c.title))
	b.WriteString("\n\n")
	if c.step < len(c.prompts) {
		b.WriteString(styles.Text.Render(c.prompts[c.step]))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y confirm · n/esc cancel"))
	return placeModal(theme, width, height, b.String())
}

func placeModal(theme Theme, width, height int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(56)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
