package transfer

import (
	"context"

	"github.com/devaccess/devaccess-go/pkg/version"
)

// CopyDecorator gives an accessor its own buffer on top of a target shared
// with other accessors. After the target's PostRead it copies the target
// buffer. It is read-only: two accessors writing one register in the same
// transfer would race for the shared buffer.
type CopyDecorator[T UserType] struct {
	Core

	target  Buffered[T]
	buffer  []T
	version version.Number
}

// NewCopyDecorator returns a copy decorator over target. The decorator takes
// id, the ID of the element it stands in for, so that the accessor keeps its
// ID across deduplication. An invalid id selects a fresh one.
func NewCopyDecorator[T UserType](target Buffered[T], id ID) *CopyDecorator[T] {
	if !id.IsValid() {
		id = NewID()
	}
	buf := make([]T, len(target.Buffer()))
	copy(buf, target.Buffer())
	return &CopyDecorator[T]{
		Core:    Core{id: id, name: target.Name(), mode: target.AccessMode()},
		target:  target,
		buffer:  buf,
		version: target.VersionNumber(),
	}
}

// Target returns the shared element.
func (d *CopyDecorator[T]) Target() Element { return d.target }

// IsCopyDecorator marks d for transfer groups.
func (d *CopyDecorator[T]) IsCopyDecorator() bool { return true }

// Buffer returns the private buffer.
func (d *CopyDecorator[T]) Buffer() []T { return d.buffer }

func (d *CopyDecorator[T]) IsReadable() bool  { return d.target.IsReadable() }
func (d *CopyDecorator[T]) IsWriteable() bool { return false }
func (d *CopyDecorator[T]) IsReadOnly() bool  { return d.target.IsReadable() }

func (d *CopyDecorator[T]) DoPreRead(t Type) error {
	return PreRead(d.target, t)
}

func (d *CopyDecorator[T]) DoReadTransfer(ctx context.Context) error {
	return ReadTransfer(ctx, d.target)
}

func (d *CopyDecorator[T]) DoReadTransferNonBlocking() (bool, error) {
	return ReadTransferNonBlocking(d.target)
}

func (d *CopyDecorator[T]) DoReadTransferLatest() (bool, error) {
	return ReadTransferLatest(d.target)
}

func (d *CopyDecorator[T]) DoPostRead(t Type, hasNewData bool) error {
	err := PostRead(d.target, t, hasNewData)
	if !hasNewData {
		return err
	}
	src := d.target.Buffer()
	if len(d.buffer) != len(src) {
		d.buffer = make([]T, len(src))
	}
	copy(d.buffer, src)
	d.version = d.target.VersionNumber()
	return err
}

func (d *CopyDecorator[T]) DoPreWrite(Type, version.Number) error {
	return violation(d, "preWrite", "copy decorator is read-only")
}

func (d *CopyDecorator[T]) DoWriteTransfer(version.Number) (bool, error) {
	return false, violation(d, "writeTransfer", "copy decorator is read-only")
}

func (d *CopyDecorator[T]) DoPostWrite(Type, version.Number) error { return nil }

func (d *CopyDecorator[T]) VersionNumber() version.Number { return d.version }

func (d *CopyDecorator[T]) IsSameRegister(other Element) bool {
	if cd, ok := other.(CopyDecorating); ok {
		other = cd.Target()
	}
	return d.target.IsSameRegister(other)
}

func (d *CopyDecorator[T]) HardwareAccessingElements() []Element {
	return d.target.HardwareAccessingElements()
}

func (d *CopyDecorator[T]) InternalElements() []Element {
	return append([]Element{d.target}, d.target.InternalElements()...)
}

func (d *CopyDecorator[T]) ReplaceTransferElement(e Element) bool {
	if ShouldReplace(d.target, e) {
		if typed, ok := e.(Buffered[T]); ok {
			d.target = typed
			return true
		}
	}
	return d.target.ReplaceTransferElement(e)
}

func (d *CopyDecorator[T]) ReadQueue() Notifier { return d.target.ReadQueue() }

var _ CopyDecorating = (*CopyDecorator[int32])(nil)
