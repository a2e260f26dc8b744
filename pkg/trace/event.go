package trace

import (
	"time"
)

// Event is one traced coordination event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the recorder that emitted the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Component that emitted the event.
	Component Component `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// Op is the operation, e.g. "read", "waitAny", "dedup".
	Op string `cbor:"5,keyasint"`

	// ElementID and ElementName identify the element concerned, if any.
	ElementID   uint64 `cbor:"6,keyasint,omitempty"`
	ElementName string `cbor:"7,keyasint,omitempty"`

	// Version is the version number involved, 0 if none was valid.
	Version uint64 `cbor:"8,keyasint,omitempty"`

	// Elements is the number of elements involved, e.g. physical transfers
	// of a batched read.
	Elements int `cbor:"9,keyasint,omitempty"`

	// DataLost is set when a write reported lost data.
	DataLost bool `cbor:"10,keyasint,omitempty"`

	// Duration of the operation. Stored as nanoseconds.
	Duration time.Duration `cbor:"11,keyasint,omitempty"`

	// Consistent is set when a consistency update completed a set.
	Consistent bool `cbor:"12,keyasint,omitempty"`

	// Error message of a failed operation.
	Error string `cbor:"13,keyasint,omitempty"`
}

// Component identifies the emitting group type.
type Component uint8

const (
	ComponentGroup       Component = 0
	ComponentReadAny     Component = 1
	ComponentConsistency Component = 2
	ComponentDevice      Component = 3
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case ComponentGroup:
		return "GROUP"
	case ComponentReadAny:
		return "READANY"
	case ComponentConsistency:
		return "CONSISTENCY"
	case ComponentDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	// CategoryTransfer is a data transfer or wait.
	CategoryTransfer Category = 0
	// CategoryConfig is a structural change of a group.
	CategoryConfig Category = 1
	// CategoryError is a failed operation.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransfer:
		return "TRANSFER"
	case CategoryConfig:
		return "CONFIG"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseComponent parses a component name as printed by String.
func ParseComponent(s string) (Component, bool) {
	for c := ComponentGroup; c <= ComponentDevice; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// ParseCategory parses a category name as printed by String.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryTransfer; c <= CategoryError; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}
