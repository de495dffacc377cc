package logtail

import (
	"strings"
	"time"
)

// Level is the severity inferred from a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one parsed line of fitdeck's own log.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Raw     string
}

// stdTimeLayout matches log.LstdFlags output.
const stdTimeLayout = "2006/01/02 15:04:05"

var (
	errorMarkers = []string{"failed", "error", "rejected", "panic"}
	warnMarkers  = []string{"discarded", "unavailable", "retry", "stale"}
)

// Parse splits a standard-logger line into its timestamp and message and
// classifies its severity. Lines without a timestamp keep a zero Time.
func Parse(line string) Entry {
	e := Entry{Raw: line, Message: line}
	if len(line) > len(stdTimeLayout) {
		if ts, err := time.ParseInLocation(stdTimeLayout, line[:len(stdTimeLayout)], time.Local); err == nil {
			e.Time = ts
			e.Message = strings.TrimSpace(line[len(stdTimeLayout):])
		}
	}
	e.Level = classify(e.Message)
	return e
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line))
	}
	return out
}

func classify(msg string) Level {
	lower := strings.ToLower(msg)
	for _, m := range errorMarkers {
		if strings.Contains(lower, m) {
			return LevelError
		}
	}
	for _, m := range warnMarkers {
		if strings.Contains(lower, m) {
			return LevelWarn
		}
	}
	return LevelInfo
}
