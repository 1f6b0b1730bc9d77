package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	generatedAt := time.Date(2025, 12, 3, 16, 54, 55, 0, time.UTC)

	if err := WriteJSON(path, sampleRecords(), generatedAt); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON document: %v", err)
	}

	if doc["timestamp"] != "2025-12-03T16:54:55Z" {
		t.Errorf("timestamp = %v", doc["timestamp"])
	}
	if doc["total_tests"] != float64(3) {
		t.Errorf("total_tests = %v, want 3", doc["total_tests"])
	}

	entries := doc["results"].([]any)
	if len(entries) != 3 {
		t.Fatalf("results has %d entries, want 3", len(entries))
	}

	// Success record carries actual and correct values and a null error.
	first := entries[0].(map[string]any)
	if first["error"] != nil {
		t.Errorf("success entry error = %v, want null", first["error"])
	}
	actual := first["actual"].(map[string]any)
	if actual["emails"] != true {
		t.Errorf("actual.emails = %v, want true", actual["emails"])
	}
	correct := first["correct"].(map[string]any)
	if correct["emails"] != true || correct["safe"] != true {
		t.Errorf("correct = %v", correct)
	}

	// Error record has null actual/correct fields and the failure cause.
	last := entries[2].(map[string]any)
	if last["error"] == nil {
		t.Error("error entry has null error field")
	}
	lastActual := last["actual"].(map[string]any)
	if lastActual["safe"] != nil || lastActual["emails"] != nil {
		t.Errorf("error entry actual = %v, want nulls", lastActual)
	}
	lastCorrect := last["correct"].(map[string]any)
	if lastCorrect["safe"] != nil {
		t.Errorf("error entry correct = %v, want nulls", lastCorrect)
	}
}

func TestOutcomeConversion(t *testing.T) {
	records := sampleRecords()
	outcomes := Outcomes(records)

	if len(outcomes) != len(records) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(records))
	}
	if outcomes[0].Errored || !outcomes[2].Errored {
		t.Errorf("errored flags = %v/%v, want false/true", outcomes[0].Errored, outcomes[2].Errored)
	}
	if outcomes[0].Expected != records[0].Expected || outcomes[0].Actual != records[0].Actual {
		t.Error("outcome labels do not match record labels")
	}
}
