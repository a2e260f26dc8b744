package trace

import "testing"

func TestComponentString(t *testing.T) {
	tests := []struct {
		c    Component
		want string
	}{
		{ComponentGroup, "GROUP"},
		{ComponentReadAny, "READANY"},
		{ComponentConsistency, "CONSISTENCY"},
		{ComponentDevice, "DEVICE"},
		{Component(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Component(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestParseComponentAndCategory(t *testing.T) {
	if c, ok := ParseComponent("READANY"); !ok || c != ComponentReadAny {
		t.Errorf("ParseComponent(READANY) = %v, %v", c, ok)
	}
	if _, ok := ParseComponent("readany"); ok {
		t.Error("ParseComponent should be case sensitive")
	}
	if c, ok := ParseCategory("ERROR"); !ok || c != CategoryError {
		t.Errorf("ParseCategory(ERROR) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("UNKNOWN"); ok {
		t.Error("ParseCategory(UNKNOWN) should fail")
	}
}

func TestFilterMatches(t *testing.T) {
	group := ComponentGroup
	errs := CategoryError
	event := Event{
		SessionID: "s1",
		Component: ComponentGroup,
		Category:  CategoryTransfer,
		Op:        "read",
		ElementID: 4,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"session", Filter{SessionID: "s1"}, true},
		{"other session", Filter{SessionID: "s2"}, false},
		{"component", Filter{Component: &group}, true},
		{"category", Filter{Category: &errs}, false},
		{"op", Filter{Op: "write"}, false},
		{"element", Filter{ElementID: 4, Op: "read"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(event); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}
