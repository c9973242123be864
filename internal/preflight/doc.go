// Package preflight provides readiness checks for the filesystem paths a
// merge touches.
//
// The merge job calls RunAll before reading any payload; if a check fails the
// run stops before anything is written. The CLI "config validate" command
// runs the same checks against configured directories.
package preflight
