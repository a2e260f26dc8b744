package accessor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/devaccess/devaccess-go/pkg/transfer"
)

// Kind is the closed set of value types supported at the user boundary.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
)

var kindNames = []string{
	"invalid", "int8", "int16", "int32", "int64",
	"uint8", "uint16", "uint32", "uint64", "float32", "float64",
	"bool", "string",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind parses a kind name as used in register map files.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "int":
		return KindInt64, nil
	case "uint":
		return KindUint64, nil
	case "float", "double":
		return KindFloat64, nil
	}
	for i, n := range kindNames {
		if i > 0 && n == name {
			return Kind(i), nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown value kind %q", s)
}

// KindOf returns the kind of T. Named types map to their underlying kind.
func KindOf[T transfer.UserType]() Kind {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64, reflect.Int:
		return KindInt64
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	default:
		return KindInvalid
	}
}

// Value is a tagged union over the supported kinds.
type Value struct {
	kind Kind
	v    any
}

// IntValue returns an int64 value.
func IntValue(i int64) Value { return Value{kind: KindInt64, v: i} }

// UintValue returns a uint64 value.
func UintValue(u uint64) Value { return Value{kind: KindUint64, v: u} }

// FloatValue returns a float64 value.
func FloatValue(f float64) Value { return Value{kind: KindFloat64, v: f} }

// BoolValue returns a bool value.
func BoolValue(b bool) Value { return Value{kind: KindBool, v: b} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, v: s} }

// ValueOf wraps x, keeping its kind.
func ValueOf[T transfer.UserType](x T) Value {
	k := KindOf[T]()
	rv := reflect.ValueOf(x)
	var v any
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		v = rv.Int()
	case KindUint8, KindUint16, KindUint32, KindUint64:
		v = rv.Uint()
	case KindFloat32, KindFloat64:
		v = rv.Float()
	case KindBool:
		v = rv.Bool()
	case KindString:
		v = rv.String()
	}
	return Value{kind: k, v: v}
}

// Kind returns the kind the value was created with.
func (v Value) Kind() Kind { return v.kind }

// Interface returns the wrapped value as int64, uint64, float64, bool or string.
func (v Value) Interface() any { return v.v }

// Int converts the value to int64.
func (v Value) Int() (int64, error) { return cast.ToInt64E(v.v) }

// Uint converts the value to uint64.
func (v Value) Uint() (uint64, error) { return cast.ToUint64E(v.v) }

// Float converts the value to float64.
func (v Value) Float() (float64, error) { return cast.ToFloat64E(v.v) }

// Bool converts the value to bool.
func (v Value) Bool() (bool, error) { return cast.ToBoolE(v.v) }

// String converts the value to its string form.
func (v Value) String() string {
	if v.kind == KindInvalid {
		return "<invalid>"
	}
	return cast.ToString(v.v)
}

// Convert converts v to T.
func Convert[T transfer.UserType](v Value) (T, error) {
	var zero T
	if v.kind == KindInvalid {
		return zero, fmt.Errorf("convert invalid value to %s", KindOf[T]())
	}

	var (
		out any
		err error
	)
	switch KindOf[T]() {
	case KindInt8:
		out, err = cast.ToInt8E(v.v)
	case KindInt16:
		out, err = cast.ToInt16E(v.v)
	case KindInt32:
		out, err = cast.ToInt32E(v.v)
	case KindInt64:
		out, err = cast.ToInt64E(v.v)
	case KindUint8:
		out, err = cast.ToUint8E(v.v)
	case KindUint16:
		out, err = cast.ToUint16E(v.v)
	case KindUint32:
		out, err = cast.ToUint32E(v.v)
	case KindUint64:
		out, err = cast.ToUint64E(v.v)
	case KindFloat32:
		out, err = cast.ToFloat32E(v.v)
	case KindFloat64:
		out, err = cast.ToFloat64E(v.v)
	case KindBool:
		out, err = cast.ToBoolE(v.v)
	case KindString:
		out, err = cast.ToStringE(v.v)
	default:
		return zero, fmt.Errorf("unsupported target kind for %T", zero)
	}
	if err != nil {
		return zero, fmt.Errorf("convert %s to %s: %w", v.kind, KindOf[T](), err)
	}
	return reflect.ValueOf(out).Convert(reflect.TypeFor[T]()).Interface().(T), nil
}

// Untyped is an accessor whose value type is only known at run time.
type Untyped interface {
	transfer.Handle

	Kind() Kind
	Len() int
	AnyValue() Value
	AnyValueAt(i int) Value
	SetAnyValue(v Value) error
	SetAnyValueAt(i int, v Value) error
}

// Kind returns the value kind of the accessor.
func (a *Accessor[T]) Kind() Kind { return KindOf[T]() }

// AnyValue returns the first buffer value.
func (a *Accessor[T]) AnyValue() Value { return a.AnyValueAt(0) }

// AnyValueAt returns the buffer value at index i, or an invalid Value when
// out of range.
func (a *Accessor[T]) AnyValueAt(i int) Value {
	if i < 0 || i >= a.Len() {
		return Value{}
	}
	return ValueOf(a.impl.Buffer()[i])
}

// SetAnyValue converts v and stores it as first buffer value.
func (a *Accessor[T]) SetAnyValue(v Value) error { return a.SetAnyValueAt(0, v) }

// SetAnyValueAt converts v and stores it at index i.
func (a *Accessor[T]) SetAnyValueAt(i int, v Value) error {
	if a.impl == nil {
		return ErrNotInitialised
	}
	if i < 0 || i >= a.Len() {
		return fmt.Errorf("%w: index %d, length %d", ErrLength, i, a.Len())
	}
	x, err := Convert[T](v)
	if err != nil {
		return err
	}
	a.impl.Buffer()[i] = x
	return nil
}

var _ Untyped = (*Accessor[float64])(nil)
