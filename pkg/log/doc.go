// Package log provides structured sample tracing for storemon.
//
// Samplers report every polling tick as an Event: the rates pushed into the
// histories, the stored/capacity readings, or the reason a tick was skipped.
// This is separate from operational logging (slog); the trace is a complete
// machine-readable record for debugging device adapters.
//
// # Basic Usage
//
//	// For development: trace to console via slog
//	opts.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write a binary trace file
//	opts.Trace, _ = log.NewFileLogger("/tmp/storemon.slog")
//
//	// Both
//	opts.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys. They
// are append-only and can be read back with Reader or the storemon-log
// command. The monitor itself never reads them.
package log
