// Package export writes the caller's full data dump to disk.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// FileName returns the export file name for the day of now (UTC).
func FileName(now time.Time) string {
	return fmt.Sprintf("fitdeck-export-%s.json", now.UTC().Format("2006-01-02"))
}

// Encode renders data as indented JSON. Empty collections are written as
// empty arrays.
func Encode(data fitness.Export) ([]byte, error) {
	if data.Meals == nil {
		data.Meals = []fitness.Meal{}
	}
	if data.Workouts == nil {
		data.Workouts = []fitness.Workout{}
	}
	if data.Activities == nil {
		data.Activities = []fitness.Activity{}
	}
	if data.Goals == nil {
		data.Goals = []fitness.Goal{}
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(out, '\n'), nil
}

// Write stores data in dir and returns the file path.
func Write(dir string, data fitness.Export, now time.Time) (string, error) {
	body, err := Encode(data)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
