// Package logging provides structured logging for Singlite.
//
// It wraps log/slog with configuration-driven level, format and output
// selection, plus default service attributes so every line identifies
// the process that emitted it.
//
// Thread Safety:
//   - Loggers are safe for concurrent use from multiple goroutines.
package logging
