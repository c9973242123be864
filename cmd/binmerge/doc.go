// Command binmerge merges the per-track BIN files of a multi-file CUE sheet
// into a single BIN image with a rewritten single-FILE sheet.
//
// Subcommands:
//
//	combine  merge one sheet (or the first sheet in a directory)
//	inspect  show the FILE/TRACK/INDEX tree of a sheet
//	history  list past merge runs
//	watch    merge sheets dropped into a directory
//	config   create, validate, or show the configuration
package main
