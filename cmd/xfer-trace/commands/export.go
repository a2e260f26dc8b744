package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

// jsonEvent is the JSON Lines form of an event with readable enum names.
type jsonEvent struct {
	Timestamp   string `json:"timestamp"`
	SessionID   string `json:"session_id"`
	Component   string `json:"component"`
	Category    string `json:"category"`
	Op          string `json:"op"`
	ElementID   uint64 `json:"element_id,omitempty"`
	ElementName string `json:"element_name,omitempty"`
	Version     uint64 `json:"version,omitempty"`
	Elements    int    `json:"elements,omitempty"`
	DataLost    bool   `json:"data_lost,omitempty"`
	DurationNS  int64  `json:"duration_ns,omitempty"`
	Consistent  bool   `json:"consistent,omitempty"`
	Error       string `json:"error,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05.000000Z"

// RunExport writes the events of path matching opts to w as "jsonl" or "csv".
func RunExport(path, format string, opts FilterOptions, w io.Writer) error {
	var write func(trace.Event) error
	var finish func() error
	switch format {
	case "jsonl":
		enc := json.NewEncoder(w)
		write = func(e trace.Event) error { return enc.Encode(toJSON(e)) }
		finish = func() error { return nil }
	case "csv":
		cw := csv.NewWriter(w)
		header := []string{"timestamp", "session_id", "component", "category", "op",
			"element_id", "element_name", "version", "elements", "duration_ns", "consistent", "error"}
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		write = func(e trace.Event) error { return cw.Write(toRow(e)) }
		finish = func() error {
			cw.Flush()
			return cw.Error()
		}
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	filter, err := opts.Build()
	if err != nil {
		return err
	}
	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	if err := each(reader, func(e trace.Event) error {
		if err := write(e); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	return finish()
}

func toJSON(e trace.Event) jsonEvent {
	return jsonEvent{
		Timestamp:   e.Timestamp.UTC().Format(timeLayout),
		SessionID:   e.SessionID,
		Component:   e.Component.String(),
		Category:    e.Category.String(),
		Op:          e.Op,
		ElementID:   e.ElementID,
		ElementName: e.ElementName,
		Version:     e.Version,
		Elements:    e.Elements,
		DataLost:    e.DataLost,
		DurationNS:  e.Duration.Nanoseconds(),
		Consistent:  e.Consistent,
		Error:       e.Error,
	}
}

func toRow(e trace.Event) []string {
	return []string{
		e.Timestamp.UTC().Format(timeLayout),
		e.SessionID,
		e.Component.String(),
		e.Category.String(),
		e.Op,
		strconv.FormatUint(e.ElementID, 10),
		e.ElementName,
		strconv.FormatUint(e.Version, 10),
		strconv.Itoa(e.Elements),
		strconv.FormatInt(e.Duration.Nanoseconds(), 10),
		strconv.FormatBool(e.Consistent),
		e.Error,
	}
}
