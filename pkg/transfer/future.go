package transfer

import (
	"context"
	"errors"
)

// Future completes a read started by ReadAsync. A Future must not be copied.
type Future struct {
	elem Element
	done bool
}

// Element returns the element the future belongs to.
func (f *Future) Element() Element { return f.elem }

// Done reports whether the future was retired.
func (f *Future) Done() bool { return f.done }

// Wait blocks until the transfer completes, then runs PostRead and retires
// the future. If ctx is done first the future stays outstanding and the
// context error is returned.
func (f *Future) Wait(ctx context.Context) error {
	if f.done {
		return violation(f.elem, "wait", "future already retired")
	}
	err := ReadTransfer(ctx, f.elem)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	return f.finish(err == nil, err)
}

// HasNewData completes the transfer if a value is available without
// blocking. It reports whether the future was retired with new data; when it
// returns false and a nil error the future stays outstanding.
func (f *Future) HasNewData() (bool, error) {
	if f.done {
		return false, violation(f.elem, "hasNewData", "future already retired")
	}
	if !f.elem.AccessMode().IsPush() {
		err := ReadTransfer(context.Background(), f.elem)
		return err == nil, f.finish(err == nil, err)
	}
	ok, err := ReadTransferNonBlocking(f.elem)
	if err == nil && !ok {
		return false, nil
	}
	return ok && err == nil, f.finish(ok && err == nil, err)
}

// Cancel retires the future without transferring data.
func (f *Future) Cancel() error {
	if f.done {
		return nil
	}
	return f.finish(false, nil)
}

func (f *Future) finish(hasNewData bool, err error) error {
	perr := PostRead(f.elem, TypeRead, hasNewData)
	f.done = true
	if c := f.elem.TransferCore(); c.future == f {
		c.future = nil
	}
	if err != nil {
		return err
	}
	return perr
}
