// Package logs reads back the JSON log files binmerge writes next to its
// console output.
//
// Tail returns the last lines of one file with bounded memory. ForRun scans
// every retained daily file for the records of a single merge run, which is
// how `binmerge history show --logs` pairs a history row with its log lines.
package logs
