package dummy

import (
	"context"
	"math"

	"github.com/devaccess/devaccess-go/pkg/accessor"
	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// converter is a high-level element presenting the raw words of a
// RawAccessor as values of T.
type converter[T transfer.UserType] struct {
	transfer.Core

	target  *RawAccessor
	scale   float64
	buffer  []T
	version version.Number
}

func newConverter[T transfer.UserType](target *RawAccessor) *converter[T] {
	bits := target.Info().FractionalBits
	if target.AccessMode().Has(transfer.Raw) {
		bits = 0
	}
	return &converter[T]{
		Core:   transfer.NewCore(target.Name(), target.AccessMode()),
		target: target,
		scale:  math.Ldexp(1, bits),
		buffer: make([]T, len(target.Buffer())),
	}
}

// Scalar opens the first word of a register as a typed accessor.
func Scalar[T transfer.UserType](d *Device, name string, mode transfer.AccessMode) (*accessor.Accessor[T], error) {
	return Array[T](d, name, mode, 0, 1)
}

// Array opens n words of a register starting at offset as a typed
// accessor. n <= 0 selects the rest of the register.
func Array[T transfer.UserType](d *Device, name string, mode transfer.AccessMode, offset, n int) (*accessor.Accessor[T], error) {
	raw, err := d.OpenRaw(name, mode, offset, n)
	if err != nil {
		return nil, err
	}
	return accessor.New[T](newConverter[T](raw)), nil
}

// OpenUntyped opens a whole register as an accessor of the given kind.
func OpenUntyped(d *Device, name string, mode transfer.AccessMode, kind accessor.Kind) (accessor.Untyped, error) {
	switch kind {
	case accessor.KindInt8:
		return Array[int8](d, name, mode, 0, 0)
	case accessor.KindInt16:
		return Array[int16](d, name, mode, 0, 0)
	case accessor.KindInt32:
		return Array[int32](d, name, mode, 0, 0)
	case accessor.KindInt64:
		return Array[int64](d, name, mode, 0, 0)
	case accessor.KindUint8:
		return Array[uint8](d, name, mode, 0, 0)
	case accessor.KindUint16:
		return Array[uint16](d, name, mode, 0, 0)
	case accessor.KindUint32:
		return Array[uint32](d, name, mode, 0, 0)
	case accessor.KindUint64:
		return Array[uint64](d, name, mode, 0, 0)
	case accessor.KindFloat32:
		return Array[float32](d, name, mode, 0, 0)
	case accessor.KindFloat64:
		return Array[float64](d, name, mode, 0, 0)
	case accessor.KindBool:
		return Array[bool](d, name, mode, 0, 0)
	case accessor.KindString:
		return Array[string](d, name, mode, 0, 0)
	default:
		return nil, transfer.ConfigError("register %q: unsupported kind %s", name, kind)
	}
}

func (c *converter[T]) Buffer() []T { return c.buffer }

func (c *converter[T]) IsReadable() bool  { return c.target.IsReadable() }
func (c *converter[T]) IsWriteable() bool { return c.target.IsWriteable() }
func (c *converter[T]) IsReadOnly() bool  { return c.target.IsReadOnly() }

func (c *converter[T]) DoPreRead(t transfer.Type) error {
	return transfer.PreRead(c.target, t)
}

func (c *converter[T]) DoReadTransfer(ctx context.Context) error {
	return transfer.ReadTransfer(ctx, c.target)
}

func (c *converter[T]) DoReadTransferNonBlocking() (bool, error) {
	return transfer.ReadTransferNonBlocking(c.target)
}

func (c *converter[T]) DoReadTransferLatest() (bool, error) {
	return transfer.ReadTransferLatest(c.target)
}

func (c *converter[T]) DoPostRead(t transfer.Type, hasNewData bool) error {
	if err := transfer.PostRead(c.target, t, hasNewData); err != nil {
		return err
	}
	if !hasNewData {
		return nil
	}
	for i, raw := range c.target.Buffer() {
		v, err := accessor.Convert[T](c.decode(raw))
		if err != nil {
			return err
		}
		c.buffer[i] = v
	}
	c.version = c.target.VersionNumber()
	return nil
}

func (c *converter[T]) decode(raw int32) accessor.Value {
	if c.scale == 1 {
		return accessor.IntValue(int64(raw))
	}
	return accessor.FloatValue(float64(raw) / c.scale)
}

func (c *converter[T]) DoPreWrite(t transfer.Type, v version.Number) error {
	raw := c.target.Buffer()
	for i, x := range c.buffer {
		f, err := accessor.ValueOf(x).Float()
		if err != nil {
			return err
		}
		raw[i] = saturate(math.Round(f * c.scale))
	}
	return transfer.PreWrite(c.target, t, v)
}

func saturate(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	default:
		return int32(f)
	}
}

func (c *converter[T]) DoWriteTransfer(v version.Number) (bool, error) {
	return transfer.WriteTransfer(c.target, v)
}

func (c *converter[T]) DoPostWrite(t transfer.Type, v version.Number) error {
	err := transfer.PostWrite(c.target, t, v)
	c.version = v
	return err
}

func (c *converter[T]) VersionNumber() version.Number { return c.version }

// IsSameRegister reports whether other converts the same words to the same
// type with the same scale.
func (c *converter[T]) IsSameRegister(other transfer.Element) bool {
	o, ok := other.(*converter[T])
	return ok && o.scale == c.scale && o.target.IsSameRegister(c.target)
}

func (c *converter[T]) HardwareAccessingElements() []transfer.Element {
	return c.target.HardwareAccessingElements()
}

func (c *converter[T]) InternalElements() []transfer.Element {
	return []transfer.Element{c.target}
}

func (c *converter[T]) ReplaceTransferElement(e transfer.Element) bool {
	if !transfer.ShouldReplace(c.target, e) {
		return false
	}
	raw, ok := e.(*RawAccessor)
	if !ok {
		return false
	}
	c.target = raw
	return true
}

func (c *converter[T]) ReadQueue() transfer.Notifier { return c.target.ReadQueue() }

var _ transfer.Buffered[float64] = (*converter[float64])(nil)
