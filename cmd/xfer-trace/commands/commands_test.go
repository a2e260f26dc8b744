package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

func createTestTraceFile(t *testing.T, events []trace.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xtrace")

	logger, err := trace.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

var ts = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleEvents() []trace.Event {
	return []trace.Event{
		{Timestamp: ts, SessionID: "aaaaaaaa-1111", Component: trace.ComponentGroup, Category: trace.CategoryTransfer,
			Op: "read", Elements: 2, Duration: 1500 * time.Microsecond},
		{Timestamp: ts.Add(time.Second), SessionID: "aaaaaaaa-1111", Component: trace.ComponentReadAny, Category: trace.CategoryTransfer,
			Op: "waitAny", ElementID: 7, ElementName: "adc/ch0", Version: 42},
		{Timestamp: ts.Add(2 * time.Second), SessionID: "bbbbbbbb-2222", Component: trace.ComponentConsistency, Category: trace.CategoryTransfer,
			Op: "update", ElementID: 7, Version: 42, Consistent: true},
		{Timestamp: ts.Add(3 * time.Second), SessionID: "bbbbbbbb-2222", Component: trace.ComponentGroup, Category: trace.CategoryError,
			Op: "write", Error: "read-only group"},
	}
}

func TestFilterOptionsBuild(t *testing.T) {
	f, err := FilterOptions{
		Component: "readany",
		Category:  "Transfer",
		ElementID: "7",
		TimeStart: "2026-03-01T12:00:00Z",
	}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if f.Component == nil || *f.Component != trace.ComponentReadAny {
		t.Errorf("Component = %v, want READANY", f.Component)
	}
	if f.Category == nil || *f.Category != trace.CategoryTransfer {
		t.Errorf("Category = %v, want TRANSFER", f.Category)
	}
	if f.ElementID != 7 {
		t.Errorf("ElementID = %d, want 7", f.ElementID)
	}
	if f.TimeStart == nil || !f.TimeStart.Equal(ts) {
		t.Errorf("TimeStart = %v, want %v", f.TimeStart, ts)
	}
}

func TestFilterOptionsBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOptions
	}{
		{"component", FilterOptions{Component: "bus"}},
		{"category", FilterOptions{Category: "state"}},
		{"element", FilterOptions{ElementID: "seven"}},
		{"time-start", FilterOptions{TimeStart: "yesterday"}},
		{"time-end", FilterOptions{TimeEnd: "2026-13-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.opts.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunView(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, FilterOptions{Component: "readany"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"2026-03-01T12:00:01.000000Z",
		"[sess:aaaaaaaa]",
		"READANY TRANSFER waitAny",
		"Element: adc/ch0 (#7)",
		"Version: 42",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "GROUP") {
		t.Errorf("expected only READANY events, got:\n%s", output)
	}
}

func TestFormatEventDetails(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, trace.Event{
		Timestamp: ts,
		SessionID: "s1",
		Op:        "read",
		Elements:  3,
		Duration:  2 * time.Millisecond,
		DataLost:  true,
		Error:     "timeout",
	})
	output := buf.String()

	for _, want := range []string{"[sess:s1]", "Elements: 3", "Duration: 2.000ms", "DataLost: yes", "Error: timeout"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2 * time.Second, "2.000s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.xtrace")

	n, err := RunFilter(path, out, FilterOptions{SessionID: "bbbbbbbb-2222"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("RunFilter wrote %d events, want 2", n)
	}

	stats, err := collectStats(out)
	if err != nil {
		t.Fatalf("collectStats failed: %v", err)
	}
	if stats.TotalEvents != 2 || len(stats.Sessions) != 1 {
		t.Errorf("filtered file has %d events in %d sessions, want 2 in 1", stats.TotalEvents, len(stats.Sessions))
	}
}

func TestRunFilterMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xtrace")
	if _, err := RunFilter(filepath.Join(t.TempDir(), "missing.xtrace"), out, FilterOptions{}); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestRunExportJSONL(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunExport(path, "jsonl", FilterOptions{Op: "waitAny"}, &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if got["component"] != "READANY" || got["op"] != "waitAny" {
		t.Errorf("component/op = %v/%v, want READANY/waitAny", got["component"], got["op"])
	}
	if got["version"] != float64(42) {
		t.Errorf("version = %v, want 42", got["version"])
	}
}

func TestRunExportCSV(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunExport(path, "csv", FilterOptions{}, &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want header plus 4", len(records))
	}
	if records[0][0] != "timestamp" {
		t.Errorf("header = %v", records[0])
	}
	if records[4][11] != "read-only group" {
		t.Errorf("error column = %q, want %q", records[4][11], "read-only group")
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	var buf bytes.Buffer
	err := RunExport(path, "xml", FilterOptions{}, &buf)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("err = %v, want unknown format", err)
	}
}

func TestRunStats(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 4",
		"Sessions:     2",
		"GROUP:",
		"CONSISTENCY:",
		"ERROR:",
		"waitAny:",
		"Consistent Sets: 1",
		"Errors:          1",
		"Avg Duration:    1.500ms",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestTraceFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero events, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Time Range") {
		t.Error("empty file should not print a time range")
	}
}
