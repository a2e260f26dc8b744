package trace

import (
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
)

func TestEncodeEventTagsTimestamp(t *testing.T) {
	data, err := EncodeEvent(Event{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
		Op:        "read",
	})
	if err != nil {
		t.Fatal(err)
	}
	// map header, key 1, tag 0
	if len(data) < 3 || data[1] != 0x01 || data[2] != 0xc0 {
		t.Fatalf("timestamp not tagged: % x", data)
	}
}

func TestDecodeEventAcceptsForeignEncoding(t *testing.T) {
	data, err := cbor.Marshal(map[int]any{
		1:  "2026-01-02T03:04:05.000000006Z",
		5:  "write",
		6:  uint64(7),
		99: "ignored",
	})
	if err != nil {
		t.Fatal(err)
	}
	event, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	if !event.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", event.Timestamp, want)
	}
	if event.Op != "write" || event.ElementID != 7 {
		t.Errorf("event = %+v", event)
	}
}

func TestDecodeEventRejectsDeepNesting(t *testing.T) {
	var v any = "leaf"
	for range 16 {
		v = []any{v}
	}
	data, err := cbor.Marshal(map[int]any{5: v})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeEvent(data); err == nil {
		t.Error("DecodeEvent accepted deeply nested input")
	}
}
