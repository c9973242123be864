// Package logging assembles the structured slog loggers used across binmerge.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and tags records with the run id carried in a context so every
// line written during one merge can be correlated. A no-op logger is provided
// for tests and for library code that is handed a nil logger.
package logging
