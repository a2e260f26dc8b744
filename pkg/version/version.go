package version

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrNotReady is returned when the numeric form of an invalid Number is requested.
var ErrNotReady = errors.New("version number not ready")

// Number is a monotonic token correlating and ordering updates across
// independent accessors.
type Number struct {
	value uint64
	valid bool
	time  time.Time
}

// IsValid reports whether the number was drawn from a Source.
func (n Number) IsValid() bool {
	return n.valid
}

// Value returns the numeric form of the number.
func (n Number) Value() (uint64, error) {
	if !n.valid {
		return 0, ErrNotReady
	}
	return n.value, nil
}

// Time returns the wall-clock time at which the number was created.
// It is the zero time for an invalid number.
func (n Number) Time() time.Time {
	return n.time
}

// Equal reports whether both numbers are valid and carry the same value.
func (n Number) Equal(other Number) bool {
	return n.valid && other.valid && n.value == other.value
}

// Before reports whether n is older than other. Both must be valid.
func (n Number) Before(other Number) bool {
	return n.valid && other.valid && n.value < other.value
}

// After reports whether n is newer than other. Both must be valid.
func (n Number) After(other Number) bool {
	return n.valid && other.valid && n.value > other.value
}

// Compare returns -1, 0 or +1. Invalid numbers sort before every valid number
// and compare equal to each other; this total order exists for sorting only.
func (n Number) Compare(other Number) int {
	switch {
	case !n.valid && !other.valid:
		return 0
	case !n.valid:
		return -1
	case !other.valid:
		return 1
	case n.value < other.value:
		return -1
	case n.value > other.value:
		return 1
	default:
		return 0
	}
}

// String returns the number as "v<N>" or "v?" when invalid.
func (n Number) String() string {
	if !n.valid {
		return "v?"
	}
	return fmt.Sprintf("v%d", n.value)
}

// Source hands out strictly increasing Numbers. The zero value is ready to use
// and its first number has the value 1.
type Source struct {
	counter atomic.Uint64
}

// Next returns a new Number greater than every Number previously returned by s.
// It is safe for concurrent use.
func (s *Source) Next() Number {
	return Number{
		value: s.counter.Add(1),
		valid: true,
		time:  time.Now(),
	}
}

// Last returns the most recently issued Number, or an invalid Number if none
// was issued yet.
func (s *Source) Last() Number {
	v := s.counter.Load()
	if v == 0 {
		return Number{}
	}
	return Number{value: v, valid: true}
}

var defaultSource Source

// Next returns a new Number from the process-wide source.
func Next() Number {
	return defaultSource.Next()
}
