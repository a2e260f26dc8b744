// Package group batches transfers of several accessors into one operation.
//
// A Group owns the accessors added to it. While adding, it searches the
// element chains of all members for elements that address the same physical
// register and merges them, so that a batched read or write performs exactly
// one physical transfer per register no matter how many accessors wrap it:
//
//	g := group.New()
//	_ = g.Add(temperature)
//	_ = g.Add(temperatureRaw) // same register, merged
//	_ = g.Add(pressure)
//
//	if err := g.Read(ctx); err != nil {
//	    return err
//	}
//
// Members of a group can no longer be read or written on their own; every
// direct transfer on a member fails with transfer.ErrProtocolViolation.
//
// # Merging
//
// Two elements are merged when one of them may replace the other according
// to transfer.ShouldReplace. The element created first survives, so the
// merged set does not depend on the order accessors are added in. Accessors
// that end up sharing one element get a private buffer through a
// transfer.CopyDecorator, which makes them read-only. A group with a
// read-only member rejects Write with ErrReadOnly.
//
// # Read Sequence
//
// Read runs PreRead on every member, the physical transfer on every distinct
// hardware-accessing element, PostRead on every copy decorator and finally
// PostRead on every member. PostRead always runs, with hasNewData unset when
// a transfer failed.
//
// The structure of a group only changes in Add. A group must not be used
// from several goroutines at once.
package group
