package accessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// Accessor errors.
var (
	ErrNotInitialised = errors.New("accessor not initialised")
	ErrLength         = errors.New("value count does not match accessor length")
)

// Accessor is the typed façade over one transfer element. The zero value is
// a placeholder that is not bound to any element.
//
// Like the element it wraps, an Accessor is not safe for concurrent use.
type Accessor[T transfer.UserType] struct {
	impl transfer.Buffered[T]
}

// New returns an accessor bound to impl.
func New[T transfer.UserType](impl transfer.Buffered[T]) *Accessor[T] {
	return &Accessor[T]{impl: impl}
}

// IsInitialised reports whether the accessor is bound to an element.
func (a *Accessor[T]) IsInitialised() bool {
	return a.impl != nil
}

// Replace binds a to the implementation of other. Both accessors then share
// buffer and state.
func (a *Accessor[T]) Replace(other *Accessor[T]) {
	a.impl = other.impl
}

// TransferElement returns the bound element, or nil for a placeholder.
func (a *Accessor[T]) TransferElement() transfer.Element {
	if a.impl == nil {
		return nil
	}
	return a.impl
}

// ReplaceTransferElement deduplicates the accessor against e. If e may
// replace the bound element, the accessor is rebound to a copy decorator over
// e so that it keeps a private buffer. Otherwise the request is forwarded into
// the element chain.
func (a *Accessor[T]) ReplaceTransferElement(e transfer.Element) bool {
	if a.impl == nil {
		return false
	}
	if _, ok := a.impl.(transfer.CopyDecorating); !ok && transfer.ShouldReplace(a.impl, e) {
		if typed, ok := e.(transfer.Buffered[T]); ok {
			cd := transfer.NewCopyDecorator[T](typed, a.impl.ID())
			cd.TransferCore().SetInGroup(a.impl.TransferCore().InGroup())
			a.impl = cd
			return true
		}
	}
	return a.impl.ReplaceTransferElement(e)
}

// ID returns the ID of the bound element.
func (a *Accessor[T]) ID() transfer.ID {
	if a.impl == nil {
		return 0
	}
	return a.impl.ID()
}

// Name returns the register name.
func (a *Accessor[T]) Name() string {
	if a.impl == nil {
		return ""
	}
	return a.impl.Name()
}

// AccessMode returns the access mode flags.
func (a *Accessor[T]) AccessMode() transfer.AccessMode {
	if a.impl == nil {
		return 0
	}
	return a.impl.AccessMode()
}

func (a *Accessor[T]) IsReadable() bool  { return a.impl != nil && a.impl.IsReadable() }
func (a *Accessor[T]) IsWriteable() bool { return a.impl != nil && a.impl.IsWriteable() }
func (a *Accessor[T]) IsReadOnly() bool  { return a.impl != nil && a.impl.IsReadOnly() }

// VersionNumber returns the version of the current buffer content.
func (a *Accessor[T]) VersionNumber() version.Number {
	if a.impl == nil {
		return version.Number{}
	}
	return a.impl.VersionNumber()
}

// Read blocks until a value has been transferred into the buffer.
func (a *Accessor[T]) Read(ctx context.Context) error {
	if a.impl == nil {
		return ErrNotInitialised
	}
	return transfer.Read(ctx, a.impl)
}

// ReadNonBlocking reads one new value if available.
func (a *Accessor[T]) ReadNonBlocking() (bool, error) {
	if a.impl == nil {
		return false, ErrNotInitialised
	}
	return transfer.ReadNonBlocking(a.impl)
}

// ReadLatest reads the newest available value.
func (a *Accessor[T]) ReadLatest() (bool, error) {
	if a.impl == nil {
		return false, ErrNotInitialised
	}
	return transfer.ReadLatest(a.impl)
}

// ReadAsync starts a read and returns the future completing it.
func (a *Accessor[T]) ReadAsync() (*transfer.Future, error) {
	if a.impl == nil {
		return nil, ErrNotInitialised
	}
	return transfer.ReadAsync(a.impl)
}

// Write writes the buffer with a new version number.
func (a *Accessor[T]) Write() (bool, error) {
	return a.WriteWithVersion(version.Next())
}

// WriteWithVersion writes the buffer tagged with v.
func (a *Accessor[T]) WriteWithVersion(v version.Number) (bool, error) {
	if a.impl == nil {
		return false, ErrNotInitialised
	}
	return transfer.Write(a.impl, v)
}

// WriteDestructively writes the buffer; its content is undefined afterwards.
func (a *Accessor[T]) WriteDestructively() (bool, error) {
	if a.impl == nil {
		return false, ErrNotInitialised
	}
	return transfer.WriteDestructively(a.impl, version.Next())
}

// Len returns the number of values in the buffer.
func (a *Accessor[T]) Len() int {
	if a.impl == nil {
		return 0
	}
	return len(a.impl.Buffer())
}

// Get returns the first value of the buffer.
func (a *Accessor[T]) Get() T {
	var zero T
	if a.Len() == 0 {
		return zero
	}
	return a.impl.Buffer()[0]
}

// Set sets the first value of the buffer.
func (a *Accessor[T]) Set(v T) {
	if a.Len() == 0 {
		return
	}
	a.impl.Buffer()[0] = v
}

// Values returns the buffer. The slice aliases the accessor buffer and is
// only valid until the next transfer.
func (a *Accessor[T]) Values() []T {
	if a.impl == nil {
		return nil
	}
	return a.impl.Buffer()
}

// SetValues copies values into the buffer.
func (a *Accessor[T]) SetValues(values []T) error {
	if a.impl == nil {
		return ErrNotInitialised
	}
	buf := a.impl.Buffer()
	if len(values) != len(buf) {
		return fmt.Errorf("%w: got %d, want %d", ErrLength, len(values), len(buf))
	}
	copy(buf, values)
	return nil
}

// String returns a short description for logs.
func (a *Accessor[T]) String() string {
	if a.impl == nil {
		return "accessor(<placeholder>)"
	}
	return fmt.Sprintf("accessor(%s %s %s)", a.impl.Name(), KindOf[T](), a.impl.ID())
}

var _ transfer.Handle = (*Accessor[int32])(nil)
