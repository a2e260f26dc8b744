package trace

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Trace files hold a flat sequence of events. Event has no container
// fields, so nil container handling is left at its default.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Timestamps carry tag 0 so generic CBOR tools show them as times.
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
		TimeTag:     cbor.EncTagRequired,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: create CBOR encoder mode: %v", err))
	}

	// Events are read from files of unknown origin: nesting is bounded,
	// unknown keys are skipped and untagged timestamps are accepted.
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		TimeTag:           cbor.DecTagOptional,
		MaxNestedLevels:   8,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: create CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an event to CBOR.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes one CBOR encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns an event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
