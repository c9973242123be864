// Package watch runs a handler for every CUE sheet that lands in a drop
// folder, once the sheet has stopped changing for a settle delay.
//
// Sheets are handled one at a time, oldest first. A failing handler is logged
// and the watcher keeps running until its context is cancelled.
package watch
