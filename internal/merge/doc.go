// Package merge runs the combine job: it resolves an input sheet and output
// location into a Plan, then reads the sheet, sizes its payloads, rewrites it
// as a single FILE and concatenates the payloads into one image.
//
// Every run carries a uuid run id in its context so log lines and the history
// row can be correlated. Runs writing into the same output directory are
// serialized with a flock on <outdir>/.binmerge.lock.
package merge
