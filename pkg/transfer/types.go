package transfer

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ID identifies one element implementation. It is stable across replacement
// and deduplication and is used as map key by the group types. The zero ID
// belongs to no element.
type ID uint64

var lastID atomic.Uint64

// NewID returns a process-unique ID. IDs increase in creation order.
func NewID() ID {
	return ID(lastID.Add(1))
}

// IsValid reports whether the ID belongs to an element.
func (id ID) IsValid() bool { return id != 0 }

// String returns the ID as "#N".
func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// AccessMode is a set of access mode flags.
type AccessMode uint8

const (
	// WaitForNewData enables push semantics: reads block until a new value
	// is delivered by the backend.
	WaitForNewData AccessMode = 1 << iota

	// Raw bypasses numeric conversion. It is consumed by backends only.
	Raw
)

// Has reports whether all flags in f are set.
func (m AccessMode) Has(f AccessMode) bool { return m&f == f }

// IsPush reports whether WaitForNewData is set.
func (m AccessMode) IsPush() bool { return m.Has(WaitForNewData) }

// String returns the flags as a comma separated list.
func (m AccessMode) String() string {
	var parts []string
	if m.Has(WaitForNewData) {
		parts = append(parts, "wait_for_new_data")
	}
	if m.Has(Raw) {
		parts = append(parts, "raw")
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, ",")
}

// Type is the kind of transfer a hook is called for.
type Type uint8

const (
	TypeRead Type = iota
	TypeReadNonBlocking
	TypeReadLatest
	TypeWrite
	TypeWriteDestructively
)

// String returns the transfer type name.
func (t Type) String() string {
	switch t {
	case TypeRead:
		return "read"
	case TypeReadNonBlocking:
		return "readNonBlocking"
	case TypeReadLatest:
		return "readLatest"
	case TypeWrite:
		return "write"
	case TypeWriteDestructively:
		return "writeDestructively"
	default:
		return "unknown"
	}
}
