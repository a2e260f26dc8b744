package trace

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Log(Event{
		SessionID:   "s1",
		Component:   ComponentConsistency,
		Category:    CategoryTransfer,
		Op:          "update",
		ElementName: "b",
		Version:     9,
		Consistent:  true,
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
	if entry["component"] != "CONSISTENCY" {
		t.Errorf("component = %v, want CONSISTENCY", entry["component"])
	}
	if entry["version"] != float64(9) {
		t.Errorf("version = %v, want 9", entry["version"])
	}
	if entry["consistent"] != true {
		t.Errorf("consistent = %v, want true", entry["consistent"])
	}
	if _, ok := entry["element_id"]; ok {
		t.Error("zero element_id should be omitted")
	}
}

func TestSlogAdapterWarnsOnError(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	adapter.Log(Event{Category: CategoryError, Op: "write", Error: "read-only"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["level"] != "WARN" || entry["error"] != "read-only" {
		t.Errorf("entry = %v", entry)
	}
}
