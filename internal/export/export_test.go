package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

func TestFileName(t *testing.T) {
	now := time.Date(2026, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	if got, want := FileName(now), "fitdeck-export-2026-03-10.json"; got != want {
		t.Fatalf("FileName() = %q, want %q", got, want)
	}
}

func TestWriteProducesIndentedJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	data := fitness.Export{
		Goals:     []fitness.Goal{{ID: "g1", Description: "Walk", GoalType: fitness.GoalSteps, Target: 10000}},
		StepCount: 4200,
	}

	path, err := Write(dir, data, time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Base(path) != "fitdeck-export-2026-01-02.json" {
		t.Fatalf("path = %q", path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(body), "\n  \"meals\": []") {
		t.Fatalf("export not indented with empty meals array:\n%s", body)
	}

	var decoded fitness.Export
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if decoded.StepCount != 4200 || len(decoded.Goals) != 1 || decoded.Goals[0].GoalType != fitness.GoalSteps {
		t.Fatalf("decoded export = %+v", decoded)
	}
}
