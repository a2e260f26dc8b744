package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Error("registering twice should fail")
	}
}

func TestLogGroupRead(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	m.Log(trace.Event{
		Component: trace.ComponentGroup,
		Category:  trace.CategoryTransfer,
		Op:        "read",
		Elements:  3,
		Version:   12,
		Duration:  time.Millisecond,
	})

	if got := testutil.ToFloat64(m.Operations.WithLabelValues("GROUP", "read")); got != 1 {
		t.Errorf("operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Transfers.WithLabelValues("read")); got != 3 {
		t.Errorf("physical transfers = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.LastVersion); got != 12 {
		t.Errorf("last version = %v, want 12", got)
	}
	if got := testutil.CollectAndCount(m.Duration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestLogErrorsAndUpdates(t *testing.T) {
	m, _ := New(nil)

	m.Log(trace.Event{Component: trace.ComponentGroup, Category: trace.CategoryError, Op: "write"})
	m.Log(trace.Event{Component: trace.ComponentReadAny, Category: trace.CategoryTransfer, Op: "waitAny", ElementName: "adc/ch0"})
	m.Log(trace.Event{Component: trace.ComponentReadAny, Category: trace.CategoryTransfer, Op: "waitAny", ElementName: "adc/ch0"})
	m.Log(trace.Event{Component: trace.ComponentConsistency, Category: trace.CategoryTransfer, Op: "update", Consistent: true})
	m.Log(trace.Event{Component: trace.ComponentConsistency, Category: trace.CategoryTransfer, Op: "update"})
	m.Log(trace.Event{Component: trace.ComponentGroup, Category: trace.CategoryConfig, Op: "dedup"})

	if got := testutil.ToFloat64(m.Errors.WithLabelValues("GROUP", "write")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("GROUP", "write")); got != 0 {
		t.Errorf("failed write counted as operation: %v", got)
	}
	if got := testutil.ToFloat64(m.Updates.WithLabelValues("adc/ch0")); got != 2 {
		t.Errorf("updates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ConsistentSets); got != 1 {
		t.Errorf("consistent sets = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Merges); got != 1 {
		t.Errorf("merges = %v, want 1", got)
	}
}
