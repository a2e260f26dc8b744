package transfer

import (
	"context"

	"golang.org/x/exp/constraints"

	"github.com/devaccess/devaccess-go/pkg/version"
)

// UserType is the set of value types an accessor buffer can hold.
type UserType interface {
	constraints.Integer | constraints.Float | ~bool | ~string
}

// Element is the contract a backend accessor implements to plug into the
// transfer layer. Implementations embed Core, which provides TransferCore,
// ID, Name and AccessMode.
//
// A single element is not safe for concurrent use.
type Element interface {
	TransferCore() *Core
	ID() ID
	Name() string
	AccessMode() AccessMode

	IsReadable() bool
	IsWriteable() bool
	IsReadOnly() bool

	// DoPreRead prepares a read transaction.
	DoPreRead(t Type) error

	// DoReadTransfer performs the physical read. For push-type elements it
	// blocks until a value is available and must return promptly with the
	// context error once ctx is done.
	DoReadTransfer(ctx context.Context) error

	// DoReadTransferNonBlocking reports whether a new value was transferred.
	DoReadTransferNonBlocking() (bool, error)

	// DoReadTransferLatest transfers the newest available value, discarding
	// older queued values, and reports whether there was any.
	DoReadTransferLatest() (bool, error)

	// DoPostRead moves transferred data into the user buffer when hasNewData
	// is set. It is called after every DoPreRead, also when the transfer failed.
	DoPostRead(t Type, hasNewData bool) error

	DoPreWrite(t Type, v version.Number) error

	// DoWriteTransfer performs the physical write and reports whether a
	// previously written value was lost.
	DoWriteTransfer(v version.Number) (dataLost bool, err error)

	DoPostWrite(t Type, v version.Number) error

	// VersionNumber returns the version of the value in the user buffer.
	VersionNumber() version.Number

	// IsSameRegister reports whether other addresses the same register with
	// compatible semantics, so that the receiver may replace it.
	IsSameRegister(other Element) bool

	// HardwareAccessingElements returns the leaf elements that perform
	// physical transfers. A leaf returns itself.
	HardwareAccessingElements() []Element

	// InternalElements returns every element used by this one, direct target
	// first, recursively.
	InternalElements() []Element

	// ReplaceTransferElement swaps an internal element for e if ShouldReplace
	// allows it, recursing into the chain otherwise. It reports whether
	// anything changed.
	ReplaceTransferElement(e Element) bool

	// ReadQueue returns the notification source of a push-type element, nil
	// for poll-type elements.
	ReadQueue() Notifier
}

// Buffered is an element with a typed user buffer.
type Buffered[T UserType] interface {
	Element
	Buffer() []T
}

// Handle is the type-erased view of an accessor façade the group types
// operate on.
type Handle interface {
	TransferElement() Element
	ReplaceTransferElement(e Element) bool
}

// CopyDecorating is implemented by decorators that own a private buffer
// copied from a shared target.
type CopyDecorating interface {
	Element
	Target() Element
	IsCopyDecorator() bool
}

// BlockNotifier is implemented by elements that need to act immediately
// before a multiplexed wait blocks.
type BlockNotifier interface {
	AboutToBlock()
}

// NotifyAboutToBlock calls AboutToBlock on e or, if e does not implement
// BlockNotifier, on the first internal element that does.
func NotifyAboutToBlock(e Element) {
	if bn, ok := e.(BlockNotifier); ok {
		bn.AboutToBlock()
		return
	}
	for _, inner := range e.InternalElements() {
		if bn, ok := inner.(BlockNotifier); ok {
			bn.AboutToBlock()
			return
		}
	}
}

// ShouldReplace reports whether candidate may take the place of current: it
// addresses the same register, is not a copy decorator and was created
// earlier.
func ShouldReplace(current, candidate Element) bool {
	if current == nil || candidate == nil {
		return false
	}
	if _, ok := candidate.(CopyDecorating); ok {
		return false
	}
	if candidate.ID() >= current.ID() {
		return false
	}
	return candidate.IsSameRegister(current)
}
