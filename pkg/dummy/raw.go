package dummy

import (
	"context"
	"errors"
	"fmt"

	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// RawAccessor is the hardware-accessing element of a register window. Its
// buffer holds the raw 32-bit words.
type RawAccessor struct {
	transfer.Core

	dev    *Device
	reg    *register
	offset int

	buffer    []int32
	transport []int32
	version   version.Number
	pending   version.Number
	queue     *transfer.Queue[[]int32]
}

// OpenRaw opens n words of a register starting at offset. n <= 0 selects
// the rest of the register.
func (d *Device) OpenRaw(name string, mode transfer.AccessMode, offset, n int) (*RawAccessor, error) {
	r, err := d.register(name)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset >= len(r.words) {
		return nil, fmt.Errorf("register %q: offset %d out of range", name, offset)
	}
	if n <= 0 {
		n = len(r.words) - offset
	}
	if offset+n > len(r.words) {
		return nil, fmt.Errorf("register %q: %d words at offset %d exceed length %d", name, n, offset, len(r.words))
	}
	if mode.IsPush() && !r.info.Push {
		return nil, transfer.ConfigError("register %q does not support %s", name, transfer.WaitForNewData)
	}

	a := &RawAccessor{
		Core:      transfer.NewCore(name, mode),
		dev:       d,
		reg:       r,
		offset:    offset,
		buffer:    make([]int32, n),
		transport: make([]int32, n),
	}
	if mode.IsPush() {
		a.queue = transfer.NewQueue[[]int32](d.queueLength)
		r.subscribers.Store(a.ID(), a.queue)
	}
	return a, nil
}

// Buffer returns the raw user buffer.
func (a *RawAccessor) Buffer() []int32 { return a.buffer }

// Info returns the register description.
func (a *RawAccessor) Info() RegisterInfo { return a.reg.info }

// Release stops value delivery to a push-type accessor.
func (a *RawAccessor) Release() {
	if a.queue == nil {
		return
	}
	if q, ok := a.reg.subscribers.LoadAndDelete(a.ID()); ok {
		q.Close()
	}
}

func (a *RawAccessor) IsReadable() bool  { return a.reg.info.Access.Readable() }
func (a *RawAccessor) IsWriteable() bool { return a.reg.info.Access.Writeable() }
func (a *RawAccessor) IsReadOnly() bool  { return a.reg.info.Access == AccessReadOnly }

func (a *RawAccessor) DoPreRead(transfer.Type) error {
	if a.dev.IsClosed() && a.queue == nil {
		return ErrDeviceClosed
	}
	return nil
}

func (a *RawAccessor) DoReadTransfer(ctx context.Context) error {
	if a.queue == nil {
		a.readPoll()
		return nil
	}
	words, v, err := a.queue.Pop(ctx)
	if err != nil {
		if errors.Is(err, transfer.ErrQueueClosed) {
			return ErrDeviceClosed
		}
		return err
	}
	a.accept(words, v)
	return nil
}

func (a *RawAccessor) DoReadTransferNonBlocking() (bool, error) {
	if a.queue == nil {
		a.readPoll()
		return true, nil
	}
	words, v, ok := a.queue.TryPop()
	if ok {
		a.accept(words, v)
	}
	return ok, nil
}

func (a *RawAccessor) DoReadTransferLatest() (bool, error) {
	if a.queue == nil {
		a.readPoll()
		return true, nil
	}
	words, v, ok := a.queue.PopLatest()
	if ok {
		a.accept(words, v)
	}
	return ok, nil
}

func (a *RawAccessor) readPoll() {
	a.reg.load(a.transport, a.offset)
	a.reg.reads.Inc()
	a.pending = version.Next()
}

func (a *RawAccessor) accept(words []int32, v version.Number) {
	copy(a.transport, words[a.offset:])
	a.reg.reads.Inc()
	a.pending = v
}

func (a *RawAccessor) DoPostRead(_ transfer.Type, hasNewData bool) error {
	if hasNewData {
		a.buffer, a.transport = a.transport, a.buffer
		a.version = a.pending
	}
	return nil
}

func (a *RawAccessor) DoPreWrite(t transfer.Type, _ version.Number) error {
	if a.dev.IsClosed() {
		return ErrDeviceClosed
	}
	if t == transfer.TypeWriteDestructively {
		a.buffer, a.transport = a.transport, a.buffer
		return nil
	}
	copy(a.transport, a.buffer)
	return nil
}

func (a *RawAccessor) DoWriteTransfer(version.Number) (bool, error) {
	a.reg.store(a.transport, a.offset)
	a.reg.writes.Inc()
	return false, nil
}

func (a *RawAccessor) DoPostWrite(t transfer.Type, v version.Number) error {
	if t == transfer.TypeWriteDestructively {
		a.buffer, a.transport = a.transport, a.buffer
	}
	a.version = v
	return nil
}

func (a *RawAccessor) VersionNumber() version.Number { return a.version }

// IsSameRegister reports whether other is a raw accessor on the same words
// of the same register with the same access mode.
func (a *RawAccessor) IsSameRegister(other transfer.Element) bool {
	o, ok := other.(*RawAccessor)
	if !ok {
		return false
	}
	return o.dev == a.dev && o.reg == a.reg && o.offset == a.offset &&
		len(o.buffer) == len(a.buffer) && o.AccessMode() == a.AccessMode()
}

func (a *RawAccessor) HardwareAccessingElements() []transfer.Element {
	return []transfer.Element{a}
}

func (a *RawAccessor) InternalElements() []transfer.Element { return nil }

func (a *RawAccessor) ReplaceTransferElement(transfer.Element) bool { return false }

func (a *RawAccessor) ReadQueue() transfer.Notifier {
	if a.queue == nil {
		return nil
	}
	return a.queue
}

var _ transfer.Buffered[int32] = (*RawAccessor)(nil)
