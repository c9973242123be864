// Package cue models CD-ROM CUE sheets and the arithmetic that ties their
// MM:SS:FF timestamps to byte offsets inside the referenced binary payloads.
//
// A Sheet is the FILE -> TRACK -> INDEX tree of one CUE document. It is built
// incrementally through PushFile/PushTrack/PushIndex, which enforce the CD
// addressing rules (two-digit ids, sector-aligned offsets) at insertion time,
// and it serializes back to the canonical text form with CRLF terminators.
//
// Combine rewrites a multi-FILE sheet into a single FILE whose INDEX offsets
// point into the concatenation of every payload, in sheet order. The byte copy
// itself lives in internal/binimage; this package only computes offsets.
//
// Sheets are not safe for concurrent use.
package cue
