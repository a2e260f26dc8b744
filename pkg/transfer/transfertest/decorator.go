package transfertest

import (
	"context"

	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// Decorator is a high-level element over an Element that scales values by a
// constant factor, standing in for a numeric conversion layer.
type Decorator struct {
	transfer.Core

	target  *Element
	factor  int64
	buffer  []int64
	version version.Number
}

// NewDecorator returns a decorator over target multiplying by factor on read
// and dividing on write.
func NewDecorator(target *Element, factor int64) *Decorator {
	if factor == 0 {
		factor = 1
	}
	return &Decorator{
		Core:   transfer.NewCore(target.Name(), target.AccessMode()),
		target: target,
		factor: factor,
		buffer: make([]int64, len(target.Buffer())),
	}
}

// Target returns the current target element.
func (d *Decorator) Target() *Element { return d.target }

func (d *Decorator) Buffer() []int64 { return d.buffer }

func (d *Decorator) IsReadable() bool  { return d.target.IsReadable() }
func (d *Decorator) IsWriteable() bool { return d.target.IsWriteable() }
func (d *Decorator) IsReadOnly() bool  { return d.target.IsReadOnly() }

func (d *Decorator) DoPreRead(t transfer.Type) error {
	return transfer.PreRead(d.target, t)
}

func (d *Decorator) DoReadTransfer(ctx context.Context) error {
	return transfer.ReadTransfer(ctx, d.target)
}

func (d *Decorator) DoReadTransferNonBlocking() (bool, error) {
	return transfer.ReadTransferNonBlocking(d.target)
}

func (d *Decorator) DoReadTransferLatest() (bool, error) {
	return transfer.ReadTransferLatest(d.target)
}

func (d *Decorator) DoPostRead(t transfer.Type, hasNewData bool) error {
	err := transfer.PostRead(d.target, t, hasNewData)
	if hasNewData {
		for i, v := range d.target.Buffer() {
			d.buffer[i] = v * d.factor
		}
		d.version = d.target.VersionNumber()
	}
	return err
}

func (d *Decorator) DoPreWrite(t transfer.Type, v version.Number) error {
	for i, x := range d.buffer {
		d.target.Buffer()[i] = x / d.factor
	}
	return transfer.PreWrite(d.target, t, v)
}

func (d *Decorator) DoWriteTransfer(v version.Number) (bool, error) {
	return transfer.WriteTransfer(d.target, v)
}

func (d *Decorator) DoPostWrite(t transfer.Type, v version.Number) error {
	err := transfer.PostWrite(d.target, t, v)
	d.version = v
	return err
}

func (d *Decorator) VersionNumber() version.Number { return d.version }

func (d *Decorator) IsSameRegister(other transfer.Element) bool {
	o, ok := other.(*Decorator)
	return ok && o.factor == d.factor && o.target.IsSameRegister(d.target)
}

func (d *Decorator) HardwareAccessingElements() []transfer.Element {
	return d.target.HardwareAccessingElements()
}

func (d *Decorator) InternalElements() []transfer.Element {
	return append([]transfer.Element{d.target}, d.target.InternalElements()...)
}

func (d *Decorator) ReplaceTransferElement(e transfer.Element) bool {
	if transfer.ShouldReplace(d.target, e) {
		if el, ok := e.(*Element); ok {
			d.target = el
			return true
		}
	}
	return d.target.ReplaceTransferElement(e)
}

func (d *Decorator) ReadQueue() transfer.Notifier { return d.target.ReadQueue() }

// Handle binds an element without a typed façade. Replacing the element
// itself is not supported; replacement requests are forwarded into it.
type Handle struct {
	elem transfer.Element
}

// Bind returns a Handle for e.
func Bind(e transfer.Element) *Handle { return &Handle{elem: e} }

func (h *Handle) TransferElement() transfer.Element { return h.elem }

func (h *Handle) ReplaceTransferElement(e transfer.Element) bool {
	return h.elem.ReplaceTransferElement(e)
}

var (
	_ transfer.Buffered[int64] = (*Decorator)(nil)
	_ transfer.Handle          = (*Handle)(nil)
)
