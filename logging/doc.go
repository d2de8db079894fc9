// Package logging wraps log/slog construction and attribute helpers shared
// across the module. The connection helpers default to the nop logger:
// failures propagate to the caller as errors, and anything logged here is
// debug-level tracing opted into by the embedding client.
package logging
