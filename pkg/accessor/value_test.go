package accessor

import (
	"testing"
)

type celsius float32

func TestKindOf(t *testing.T) {
	tests := []struct {
		got  Kind
		want Kind
	}{
		{KindOf[int8](), KindInt8},
		{KindOf[int](), KindInt64},
		{KindOf[uint16](), KindUint16},
		{KindOf[float64](), KindFloat64},
		{KindOf[celsius](), KindFloat32},
		{KindOf[bool](), KindBool},
		{KindOf[string](), KindString},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("KindOf = %v, want %v", tt.got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"int32", KindInt32, false},
		{" UINT8 ", KindUint8, false},
		{"double", KindFloat64, false},
		{"int", KindInt64, false},
		{"bool", KindBool, false},
		{"invalid", KindInvalid, true},
		{"complex64", KindInvalid, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvert(t *testing.T) {
	if got, err := Convert[int16](FloatValue(12.0)); err != nil || got != 12 {
		t.Errorf("Convert[int16](12.0) = %v, %v, want 12", got, err)
	}
	if got, err := Convert[celsius](IntValue(21)); err != nil || got != 21 {
		t.Errorf("Convert[celsius](21) = %v, %v, want 21", got, err)
	}
	if got, err := Convert[bool](StringValue("true")); err != nil || !got {
		t.Errorf("Convert[bool](\"true\") = %v, %v, want true", got, err)
	}
	if got, err := Convert[string](UintValue(8)); err != nil || got != "8" {
		t.Errorf("Convert[string](8) = %q, %v, want \"8\"", got, err)
	}
	if _, err := Convert[int32](StringValue("abc")); err == nil {
		t.Error("Convert[int32](\"abc\") should fail")
	}
	if _, err := Convert[int32](Value{}); err == nil {
		t.Error("Convert of invalid value should fail")
	}
}

func TestValueOf(t *testing.T) {
	v := ValueOf(celsius(1.5))
	if v.Kind() != KindFloat32 {
		t.Errorf("Kind = %v, want float32", v.Kind())
	}
	if f, err := v.Float(); err != nil || f != 1.5 {
		t.Errorf("Float = %v, %v, want 1.5", f, err)
	}
	if s := ValueOf(uint8(200)).String(); s != "200" {
		t.Errorf("String = %q, want \"200\"", s)
	}
	if s := (Value{}).String(); s != "<invalid>" {
		t.Errorf("invalid String = %q", s)
	}
}
