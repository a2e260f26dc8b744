// Package transfertest provides in-memory transfer elements for testing code
// built on package transfer.
package transfertest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// Register is a simulated physical register shared by the elements opened on it.
type Register struct {
	name string

	mu     sync.Mutex
	values []int64

	reads  atomic.Int64
	writes atomic.Int64
}

// NewRegister returns a register holding n values.
func NewRegister(name string, n int) *Register {
	if n <= 0 {
		n = 1
	}
	return &Register{name: name, values: make([]int64, n)}
}

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Set overwrites the register content from the hardware side.
func (r *Register) Set(values ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy(r.values, values)
}

// Values returns a copy of the register content.
func (r *Register) Values() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.values...)
}

// Reads returns the number of physical reads.
func (r *Register) Reads() int64 { return r.reads.Load() }

// Writes returns the number of physical writes.
func (r *Register) Writes() int64 { return r.writes.Load() }

// Option configures an Element.
type Option func(*Element)

// ReadOnly makes the element read-only.
func ReadOnly() Option { return func(e *Element) { e.writeable = false } }

// WriteOnly makes the element write-only.
func WriteOnly() Option { return func(e *Element) { e.readable = false } }

// QueueLength sets the read queue capacity of a push-type element.
func QueueLength(n int) Option { return func(e *Element) { e.queueLength = n } }

// Element is a hardware-accessing element over a Register. It records the
// hooks it runs in Calls.
type Element struct {
	transfer.Core

	reg         *Register
	readable    bool
	writeable   bool
	queueLength int

	buffer    []int64
	transport []int64
	version   version.Number
	pending   version.Number
	queue     *transfer.Queue[[]int64]

	mu    sync.Mutex
	calls []string

	// ReadErr, if set, is returned by the next physical read.
	ReadErr error
	// WriteErr, if set, is returned by every physical write.
	WriteErr error
	// OnAboutToBlock is invoked by AboutToBlock.
	OnAboutToBlock func()
}

// NewPoll returns a poll-type element on reg.
func NewPoll(reg *Register, opts ...Option) *Element {
	return newElement(reg, 0, opts)
}

// NewPush returns a push-type element on reg. Values are delivered with Push.
func NewPush(reg *Register, opts ...Option) *Element {
	e := newElement(reg, transfer.WaitForNewData, opts)
	e.queue = transfer.NewQueue[[]int64](e.queueLength)
	return e
}

func newElement(reg *Register, mode transfer.AccessMode, opts []Option) *Element {
	e := &Element{
		Core:      transfer.NewCore(reg.name, mode),
		reg:       reg,
		readable:  true,
		writeable: true,
		buffer:    make([]int64, len(reg.values)),
		transport: make([]int64, len(reg.values)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Push delivers values to a push-type element with a fresh version and
// returns that version.
func (e *Element) Push(values ...int64) version.Number {
	v := version.Next()
	e.PushVersion(v, values...)
	return v
}

// PushVersion delivers values tagged with v.
func (e *Element) PushVersion(v version.Number, values ...int64) {
	if e.queue == nil {
		panic(fmt.Sprintf("transfertest: Push on poll-type element %q", e.Name()))
	}
	data := make([]int64, len(e.reg.values))
	copy(data, values)
	e.queue.Push(data, v)
}

// Queue returns the read queue of a push-type element.
func (e *Element) Queue() *transfer.Queue[[]int64] { return e.queue }

// Calls returns the hooks run so far.
func (e *Element) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// ResetCalls clears the hook log.
func (e *Element) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Element) record(call string) {
	e.mu.Lock()
	e.calls = append(e.calls, call)
	e.mu.Unlock()
}

// Buffer returns the user buffer.
func (e *Element) Buffer() []int64 { return e.buffer }

func (e *Element) IsReadable() bool  { return e.readable }
func (e *Element) IsWriteable() bool { return e.writeable }
func (e *Element) IsReadOnly() bool  { return e.readable && !e.writeable }

func (e *Element) DoPreRead(transfer.Type) error {
	e.record("preRead")
	return nil
}

func (e *Element) DoReadTransfer(ctx context.Context) error {
	e.record("readTransfer")
	if err := e.takeReadErr(); err != nil {
		return err
	}
	if e.queue != nil {
		data, v, err := e.queue.Pop(ctx)
		if err != nil {
			return err
		}
		e.transport, e.pending = data, v
		return nil
	}
	e.reg.reads.Add(1)
	copy(e.transport, e.reg.Values())
	e.pending = version.Next()
	return nil
}

func (e *Element) DoReadTransferNonBlocking() (bool, error) {
	e.record("readTransferNonBlocking")
	if e.queue == nil {
		return true, e.DoReadTransfer(context.Background())
	}
	data, v, ok := e.queue.TryPop()
	if ok {
		e.transport, e.pending = data, v
	}
	return ok, nil
}

func (e *Element) DoReadTransferLatest() (bool, error) {
	e.record("readTransferLatest")
	if e.queue == nil {
		return true, e.DoReadTransfer(context.Background())
	}
	data, v, ok := e.queue.PopLatest()
	if ok {
		e.transport, e.pending = data, v
	}
	return ok, nil
}

func (e *Element) DoPostRead(_ transfer.Type, hasNewData bool) error {
	e.record("postRead")
	if hasNewData {
		e.buffer, e.transport = e.transport, e.buffer
		e.version = e.pending
	}
	return nil
}

func (e *Element) DoPreWrite(transfer.Type, version.Number) error {
	e.record("preWrite")
	return nil
}

func (e *Element) DoWriteTransfer(v version.Number) (bool, error) {
	e.record("writeTransfer")
	if e.WriteErr != nil {
		return false, e.WriteErr
	}
	e.reg.writes.Add(1)
	e.reg.Set(e.buffer...)
	return false, nil
}

func (e *Element) DoPostWrite(_ transfer.Type, v version.Number) error {
	e.record("postWrite")
	e.version = v
	return nil
}

func (e *Element) VersionNumber() version.Number { return e.version }

func (e *Element) IsSameRegister(other transfer.Element) bool {
	o, ok := other.(*Element)
	if !ok {
		return false
	}
	return o.reg == e.reg && o.AccessMode() == e.AccessMode() &&
		o.readable == e.readable && o.writeable == e.writeable
}

func (e *Element) HardwareAccessingElements() []transfer.Element {
	return []transfer.Element{e}
}

func (e *Element) InternalElements() []transfer.Element { return nil }

func (e *Element) ReplaceTransferElement(transfer.Element) bool { return false }

func (e *Element) ReadQueue() transfer.Notifier {
	if e.queue == nil {
		return nil
	}
	return e.queue
}

// AboutToBlock records the call and runs OnAboutToBlock.
func (e *Element) AboutToBlock() {
	e.record("aboutToBlock")
	if e.OnAboutToBlock != nil {
		e.OnAboutToBlock()
	}
}

func (e *Element) takeReadErr() error {
	err := e.ReadErr
	e.ReadErr = nil
	return err
}

var (
	_ transfer.Buffered[int64] = (*Element)(nil)
	_ transfer.BlockNotifier   = (*Element)(nil)
)
