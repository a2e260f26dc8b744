// Package consistency detects when several push-type accessors have received
// values of the same generation.
//
// Values that belong together, e.g. the channels of one ADC conversion, are
// tagged with the same version number by the backend but arrive one by one.
// A Group is fed the IDs returned by a read-any group and reports when every
// member holds the same version:
//
//	for {
//	    id, err := waiter.WaitAny(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if dcg.Update(id) {
//	        process(dcg.LastConsistentSet())
//	    }
//	}
//
// Update performs no I/O; it only compares the members' current version
// numbers. When a member reports a version different from the one being
// collected, collection restarts at that version and the previous,
// incomplete generation is dropped. Each generation is reported at most
// once.
package consistency
