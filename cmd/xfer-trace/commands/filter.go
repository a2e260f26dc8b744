// Package commands implements the xfer-trace subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

// FilterOptions are the selection flags shared by view, filter and export.
type FilterOptions struct {
	SessionID string
	Component string
	Category  string
	Op        string
	ElementID string
	TimeStart string
	TimeEnd   string
}

// Build converts the flag values into a trace.Filter.
func (o FilterOptions) Build() (trace.Filter, error) {
	f := trace.Filter{SessionID: o.SessionID, Op: o.Op}

	if o.Component != "" {
		c, err := ParseComponentFlag(o.Component)
		if err != nil {
			return f, err
		}
		f.Component = &c
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return f, err
		}
		f.Category = &c
	}
	if o.ElementID != "" {
		id, err := cast.ToUint64E(o.ElementID)
		if err != nil {
			return f, fmt.Errorf("invalid element id %q: %w", o.ElementID, err)
		}
		f.ElementID = id
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return f, fmt.Errorf("invalid time-start format: %w", err)
		}
		f.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return f, fmt.Errorf("invalid time-end format: %w", err)
		}
		f.TimeEnd = &t
	}
	return f, nil
}

// ParseComponentFlag parses a component name (case-insensitive).
func ParseComponentFlag(s string) (trace.Component, error) {
	c, ok := trace.ParseComponent(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid component: %s (must be group, readany, consistency or device)", s)
	}
	return c, nil
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (trace.Category, error) {
	c, ok := trace.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be transfer, config or error)", s)
	}
	return c, nil
}

// RunFilter copies the events of path matching opts into a new trace file.
// It returns the number of events written.
func RunFilter(path, output string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := trace.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	count := 0
	err = each(reader, func(event trace.Event) error {
		logger.Log(event)
		count++
		return nil
	})
	if cerr := logger.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output file: %w", cerr)
	}
	if err == nil && logger.Dropped() > 0 {
		err = fmt.Errorf("%d events could not be written", logger.Dropped())
	}
	return count, err
}

// each calls fn for every remaining event of reader.
func each(reader *trace.Reader, fn func(trace.Event) error) error {
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}
