package transfer

import (
	"context"

	"github.com/devaccess/devaccess-go/pkg/version"
)

// PreRead starts a read transaction on e. Repeated calls before the matching
// PostRead are no-ops.
func PreRead(e Element, t Type) error {
	c := e.TransferCore()
	if c.readInProgress {
		return nil
	}
	c.readInProgress = true
	return e.DoPreRead(t)
}

// ReadTransfer performs the physical read of e.
func ReadTransfer(ctx context.Context, e Element) error {
	return e.DoReadTransfer(ctx)
}

// ReadTransferNonBlocking performs the non-blocking physical read of e.
func ReadTransferNonBlocking(e Element) (bool, error) {
	return e.DoReadTransferNonBlocking()
}

// ReadTransferLatest performs the physical read of the newest value of e.
func ReadTransferLatest(e Element) (bool, error) {
	return e.DoReadTransferLatest()
}

// PostRead ends the read transaction on e. Calls without an open transaction
// are no-ops.
func PostRead(e Element, t Type, hasNewData bool) error {
	c := e.TransferCore()
	if !c.readInProgress {
		return nil
	}
	c.readInProgress = false
	if err := e.DoPostRead(t, hasNewData); err != nil {
		return err
	}
	if hasNewData {
		return c.checkVersion(e)
	}
	return nil
}

// PreWrite starts a write transaction on e. Repeated calls before the
// matching PostWrite are no-ops.
func PreWrite(e Element, t Type, v version.Number) error {
	c := e.TransferCore()
	if c.writeInProgress {
		return nil
	}
	c.writeInProgress = true
	return e.DoPreWrite(t, v)
}

// WriteTransfer performs the physical write of e.
func WriteTransfer(e Element, v version.Number) (bool, error) {
	return e.DoWriteTransfer(v)
}

// PostWrite ends the write transaction on e.
func PostWrite(e Element, t Type, v version.Number) error {
	c := e.TransferCore()
	if !c.writeInProgress {
		return nil
	}
	c.writeInProgress = false
	return e.DoPostWrite(t, v)
}

func checkDirect(e Element, op string) error {
	c := e.TransferCore()
	if c.inGroup {
		return violation(e, op, "element belongs to a transfer group")
	}
	if c.future != nil {
		return violation(e, op, "a read future is outstanding")
	}
	return nil
}

func checkReadable(e Element, op string) error {
	if err := checkDirect(e, op); err != nil {
		return err
	}
	if !e.IsReadable() {
		return violation(e, op, "element is not readable")
	}
	return nil
}

func checkWriteable(e Element, op string, v version.Number) error {
	if err := checkDirect(e, op); err != nil {
		return err
	}
	if !e.IsWriteable() {
		return violation(e, op, "element is not writeable")
	}
	if !v.IsValid() {
		return violation(e, op, "invalid version number")
	}
	return nil
}

// Read performs a blocking read: PreRead, physical transfer, PostRead.
// For push-type elements it waits until a new value arrives or ctx is done.
func Read(ctx context.Context, e Element) error {
	if err := checkReadable(e, "read"); err != nil {
		return err
	}
	return readSync(ctx, e, TypeRead)
}

func readSync(ctx context.Context, e Element, t Type) error {
	err := PreRead(e, t)
	if err == nil {
		err = ReadTransfer(ctx, e)
	}
	perr := PostRead(e, t, err == nil)
	if err != nil {
		return err
	}
	return perr
}

// ReadNonBlocking reads one new value if available and reports whether it did.
// On a poll-type element it performs a regular read and returns true.
func ReadNonBlocking(e Element) (bool, error) {
	if err := checkReadable(e, "readNonBlocking"); err != nil {
		return false, err
	}
	return readPartial(e, TypeReadNonBlocking, ReadTransferNonBlocking)
}

// ReadLatest reads the newest available value, discarding older ones, and
// reports whether there was any. On a poll-type element it performs a regular
// read and returns true.
func ReadLatest(e Element) (bool, error) {
	if err := checkReadable(e, "readLatest"); err != nil {
		return false, err
	}
	return readPartial(e, TypeReadLatest, ReadTransferLatest)
}

func readPartial(e Element, t Type, transfer func(Element) (bool, error)) (bool, error) {
	if !e.AccessMode().IsPush() {
		err := readSync(context.Background(), e, t)
		return err == nil, err
	}
	var hasNewData bool
	err := PreRead(e, t)
	if err == nil {
		hasNewData, err = transfer(e)
	}
	perr := PostRead(e, t, hasNewData && err == nil)
	if err != nil {
		return false, err
	}
	return hasNewData, perr
}

// Write writes the user buffer of e tagged with v and reports whether data
// was lost.
func Write(e Element, v version.Number) (bool, error) {
	if err := checkWriteable(e, "write", v); err != nil {
		return false, err
	}
	return writeSync(e, TypeWrite, v)
}

// WriteDestructively is Write for callers that do not use the user buffer
// afterwards, allowing implementations to swap instead of copy.
func WriteDestructively(e Element, v version.Number) (bool, error) {
	if err := checkWriteable(e, "writeDestructively", v); err != nil {
		return false, err
	}
	return writeSync(e, TypeWriteDestructively, v)
}

func writeSync(e Element, t Type, v version.Number) (bool, error) {
	var dataLost bool
	err := PreWrite(e, t, v)
	if err == nil {
		dataLost, err = WriteTransfer(e, v)
	}
	perr := PostWrite(e, t, v)
	if err != nil {
		return dataLost, err
	}
	return dataLost, perr
}

// ReadAsync starts a read on e and returns the Future completing it. Until
// the future is retired, e rejects every other operation.
func ReadAsync(e Element) (*Future, error) {
	if err := checkReadable(e, "readAsync"); err != nil {
		return nil, err
	}
	if err := PreRead(e, TypeRead); err != nil {
		_ = PostRead(e, TypeRead, false)
		return nil, err
	}
	f := &Future{elem: e}
	e.TransferCore().future = f
	return f, nil
}
