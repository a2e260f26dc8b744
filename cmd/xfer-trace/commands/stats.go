package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents        int
	EventsByComponent  map[trace.Component]int
	EventsByCategory   map[trace.Category]int
	EventsByOp         map[string]int
	Sessions           map[string]int
	Errors             int
	ConsistentSets     int
	DataLost           int
	TotalDuration      time.Duration
	TimedEvents        int
	TimeStart, TimeEnd time.Time
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := trace.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByComponent: make(map[trace.Component]int),
		EventsByCategory:  make(map[trace.Category]int),
		EventsByOp:        make(map[string]int),
		Sessions:          make(map[string]int),
	}
	err = each(reader, func(event trace.Event) error {
		stats.TotalEvents++
		stats.EventsByComponent[event.Component]++
		stats.EventsByCategory[event.Category]++
		stats.EventsByOp[event.Op]++
		stats.Sessions[event.SessionID]++

		if stats.TimeStart.IsZero() || event.Timestamp.Before(stats.TimeStart) {
			stats.TimeStart = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeEnd) {
			stats.TimeEnd = event.Timestamp
		}
		if event.Error != "" {
			stats.Errors++
		}
		if event.Consistent {
			stats.ConsistentSets++
		}
		if event.DataLost {
			stats.DataLost++
		}
		if event.Duration > 0 {
			stats.TotalDuration += event.Duration
			stats.TimedEvents++
		}
		return nil
	})
	return stats, err
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Transfer Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeStart.Format(time.RFC3339), stats.TimeEnd.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeEnd.Sub(stats.TimeStart).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Component:")
	for _, c := range []trace.Component{trace.ComponentGroup, trace.ComponentReadAny, trace.ComponentConsistency, trace.ComponentDevice} {
		if count := stats.EventsByComponent[c]; count > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, c := range []trace.Category{trace.CategoryTransfer, trace.CategoryConfig, trace.CategoryError} {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	for _, op := range slices.Sorted(maps.Keys(stats.EventsByOp)) {
		fmt.Fprintf(w, "  %-13s %d\n", op+":", stats.EventsByOp[op])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Consistent Sets: %d\n", stats.ConsistentSets)
	fmt.Fprintf(w, "Data Lost:       %d\n", stats.DataLost)
	fmt.Fprintf(w, "Errors:          %d\n", stats.Errors)
	if stats.TimedEvents > 0 {
		avg := stats.TotalDuration / time.Duration(stats.TimedEvents)
		fmt.Fprintf(w, "Avg Duration:    %s\n", formatDuration(avg))
	}
}
