package trace

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xtrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	logger.Log(Event{
		Timestamp:   ts,
		SessionID:   "s1",
		Component:   ComponentReadAny,
		Category:    CategoryTransfer,
		Op:          "waitAny",
		ElementID:   7,
		ElementName: "adc/ch0",
		Version:     42,
		Duration:    3 * time.Millisecond,
	})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.ElementName != "adc/ch0" || got.ElementID != 7 || got.Version != 42 {
		t.Errorf("element fields = %q %d v%d", got.ElementName, got.ElementID, got.Version)
	}
	if got.Duration != 3*time.Millisecond {
		t.Errorf("Duration = %v, want 3ms", got.Duration)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("second Next error = %v, want io.EOF", err)
	}
}

func TestFileLoggerAppendsAndFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xtrace")

	for _, op := range []string{"read", "write"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), Op: op})
		logger.Close()
	}

	r, err := NewFilteredReader(path, Filter{Op: "write"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer r.Close()

	var ops []string
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		ops = append(ops, ev.Op)
	}
	if len(ops) != 1 || ops[0] != "write" {
		t.Errorf("ops = %v, want [write]", ops)
	}
}

func TestFileLoggerIgnoresLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xtrace")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Close()
	logger.Log(Event{Op: "read"})
	if err := logger.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xtrace")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const goroutines, perG = 8, 50
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perG {
				logger.Log(Event{Timestamp: time.Now(), Op: "read"})
			}
		}()
	}
	wg.Wait()
	logger.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()
	count := 0
	for {
		if _, err := r.Next(); err != nil {
			break
		}
		count++
	}
	if count != goroutines*perG {
		t.Errorf("events = %d, want %d", count, goroutines*perG)
	}
}
