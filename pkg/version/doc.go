// Package version provides the causal ordering token attached to every value
// produced by a transfer element.
//
// A Number is created by whichever accessor produces new data and has value
// semantics afterwards. Numbers drawn from the same Source never repeat and
// never decrease, so they can be used to correlate updates that arrive
// independently on several accessors:
//
//	v := version.Next()
//	_, err := acc.WriteWithVersion(v)
//
// The zero Number is invalid. Invalid numbers are not ordered against anything;
// asking for the numeric value of an invalid number fails with ErrNotReady.
package version
