// Package transfer defines the contract every register accessor obeys so that
// accessors can be batched, multiplexed and correlated by the group types.
//
// # Elements
//
// An Element is one accessor implementation supplied by a backend. It embeds a
// Core holding its identity and protocol state, and implements the Do* hooks:
//
//	DoPreRead -> DoReadTransfer -> DoPostRead
//	DoPreWrite -> DoWriteTransfer -> DoPostWrite
//
// Application code never calls the hooks directly. The package functions Read,
// ReadNonBlocking, ReadLatest, Write and ReadAsync run a complete transfer and
// enforce the protocol: an element that belongs to a transfer group, or that
// has an outstanding Future, cannot be read or written directly. Violations are
// reported as errors wrapping ErrProtocolViolation.
//
// The transaction helpers PreRead, PostRead, PreWrite and PostWrite make the
// hooks idempotent within one transaction. Decorators forward to their target
// through these helpers, so a target shared by several decorators runs each
// hook exactly once per transfer.
//
// # Push and poll
//
// Elements opened with WaitForNewData are push-type: values arrive
// asynchronously through a Queue and DoReadTransfer blocks until one is
// available. Every other element is poll-type and each read performs a fresh
// transfer.
//
// # Futures and fan-in
//
// ReadAsync starts a read and returns a Future. While it is outstanding only
// Future.Wait and Future.HasNewData may be used on the element. A FanIn
// combines the read queues of many push-type elements into a single queue that
// reports which element became ready, in arrival order.
//
// # Deduplication
//
// Two elements reporting IsSameRegister address the same physical register.
// ReplaceTransferElement lets a transfer group swap one for the other
// everywhere it is referenced. ShouldReplace is the canonical rule: the
// candidate with the smaller ID wins, which makes the result independent of
// the order in which accessors were grouped.
package transfer
