// Package cuefile moves CUE sheets between disk and the cue document model:
// reading and decoding sheet text, looking up payload sizes, and writing the
// canonical CRLF form back out.
package cuefile
