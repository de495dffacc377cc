package ui

import (
	"errors"
	"strings"
	"unicode"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/mutation"
	"github.com/fitdeck/fitdeck/internal/session"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// splitWords turns "workoutsPerWeek" into "Workouts Per Week".
func splitWords(value string) string {
	var b strings.Builder
	for i, r := range value {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// describeErr renders an error as a short toast message.
func describeErr(err error) string {
	var (
		invalid  *fitness.ValidationError
		rejected *gateway.RejectedError
	)
	switch {
	case errors.As(err, &invalid):
		return invalid.Reason
	case errors.Is(err, mutation.ErrPending):
		return "already in progress"
	case errors.Is(err, gateway.ErrUnavailable):
		return "not signed in"
	case errors.Is(err, session.ErrAlreadyTracking), errors.Is(err, session.ErrNotTracking):
		return err.Error()
	case errors.As(err, &rejected):
		if rejected.Message != "" {
			return rejected.Message
		}
	}
	return err.Error()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
