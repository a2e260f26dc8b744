// Package readany waits for the next update of any of several push-type
// accessors.
//
// A Group is built in two phases. While building, accessors are added;
// Finalise then starts an asynchronous read on every push-type member and
// combines their read queues into one fan-in queue. From then on WaitAny
// blocks until any push-type member received a value, completes that read
// and returns the member's ID:
//
//	g, err := readany.NewFinalised([]transfer.Handle{setpoint, trigger, status})
//	if err != nil {
//	    return err
//	}
//	for {
//	    id, err := g.WaitAny(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
//
// Poll-type members never trigger WaitAny. After every push-type update they
// are refreshed with a ReadLatest, so their buffers are at most one update
// stale.
//
// # Ordering
//
// Updates arriving after Finalise are returned in the order they arrived.
// Values already queued on members before Finalise are returned first,
// sorted by version number, oldest first. Values of one member are always
// returned in their own order.
//
// # Two-phase Waits
//
// WaitAnyNotification only dequeues the notification and leaves the member's
// buffer untouched until Notification.Accept is called. This lets a caller
// decide when the buffer may change.
//
// A Group must not be used from several goroutines at once, with the
// exception of Interrupt.
package readany
