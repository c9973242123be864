// Package history records merge runs in a SQLite database so past results can
// be listed from the CLI.
//
// The schema is applied from embedded, ordered migrations tracked in a
// schema_migrations table; Open brings any existing database up to date.
package history
