package transfer

import (
	"errors"
	"fmt"
)

// Error taxonomy. All three are programmer errors surfaced at the offending call.
var (
	// ErrProtocolViolation is the root of every misuse of the transfer protocol:
	// direct access to a grouped element, access while a future is outstanding,
	// reading a write-only or writing a read-only element.
	ErrProtocolViolation = errors.New("transfer protocol violation")

	// ErrConfiguration is the root of every invalid group configuration.
	ErrConfiguration = errors.New("transfer configuration error")
)

// Runtime conditions reported by queues.
var (
	ErrQueueClosed   = errors.New("read queue closed")
	ErrQueueAttached = errors.New("read queue already attached to a fan-in")
	ErrInterrupted   = errors.New("wait interrupted")
)

func violation(e Element, op, reason string) error {
	return fmt.Errorf("%w: %s on %q: %s", ErrProtocolViolation, op, e.Name(), reason)
}

// ConfigError returns an error wrapping ErrConfiguration.
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// ProtocolError returns an error wrapping ErrProtocolViolation for op on e.
// Group implementations use it to report misuse of their members.
func ProtocolError(e Element, op, reason string) error {
	return violation(e, op, reason)
}
