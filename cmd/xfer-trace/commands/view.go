package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

// RunView prints the events of path matching opts in a human-readable form.
func RunView(path string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	return each(reader, func(event trace.Event) error {
		formatEvent(w, event)
		return nil
	})
}

// formatEvent writes one event, e.g.
//
//	2026-03-01T12:00:00.000000Z [sess:1a2b3c4d] READANY TRANSFER waitAny
//	  Element: adc/ch0 (#7)
//	  Version: 42
func formatEvent(w io.Writer, event trace.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [sess:%s] %s %s %s\n",
		ts, shortenSessionID(event.SessionID), event.Component, event.Category, event.Op)

	if event.ElementName != "" || event.ElementID != 0 {
		fmt.Fprintf(w, "  Element: %s (#%d)\n", event.ElementName, event.ElementID)
	}
	if event.Version != 0 {
		fmt.Fprintf(w, "  Version: %d\n", event.Version)
	}
	if event.Elements != 0 {
		fmt.Fprintf(w, "  Elements: %d\n", event.Elements)
	}
	if event.Duration != 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
	}
	if event.Consistent {
		fmt.Fprintln(w, "  Consistent: yes")
	}
	if event.DataLost {
		fmt.Fprintln(w, "  DataLost: yes")
	}
	if event.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", event.Error)
	}
	fmt.Fprintln(w)
}

func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
