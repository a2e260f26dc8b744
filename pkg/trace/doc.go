// Package trace records transfer coordination events.
//
// It is separate from operational logging (slog): a trace is a complete
// machine-readable record of what the group types did, one Event per
// batched read or write, multiplexed wait, consistency update and
// structural change (add, dedup replacement, finalise).
//
// # Basic Usage
//
// Groups accept a Logger through their WithTrace option:
//
//	// For development: log to console via slog
//	g := group.New(group.WithTrace(trace.NewSlogAdapter(slog.Default())))
//
//	// For analysis: write to binary file
//	fl, _ := trace.NewFileLogger("/var/log/regmon/session.xtrace")
//	g := group.New(group.WithTrace(fl))
//
//	// Both: use MultiLogger
//	g := group.New(group.WithTrace(trace.NewMultiLogger(
//	    trace.NewSlogAdapter(slog.Default()), fl,
//	)))
//
// A nil Logger disables tracing.
//
// # File Format
//
// Trace files are a sequence of CBOR encoded events with integer map keys.
// The xfer-trace CLI views, filters, summarises and exports them.
package trace
