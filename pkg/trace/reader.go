package trace

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events. Zero fields match every event.
type Filter struct {
	SessionID string
	Component *Component
	Category  *Category
	Op        string
	ElementID uint64

	// TimeStart matches events at or after this time.
	TimeStart *time.Time
	// TimeEnd matches events before this time.
	TimeEnd *time.Time
}

// Matches reports whether event satisfies every criterion of f.
func (f *Filter) Matches(event Event) bool {
	switch {
	case f.SessionID != "" && event.SessionID != f.SessionID:
		return false
	case f.Component != nil && event.Component != *f.Component:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.Op != "" && event.Op != f.Op:
		return false
	case f.ElementID != 0 && event.ElementID != f.ElementID:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}

// Reader streams events from a trace file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a trace file and reads every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file and reads the events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				// Truncated tail of a file still being written.
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}
