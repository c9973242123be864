// Package textfile reads and writes small line-oriented text files such as
// CUE sheets. Reading decodes legacy encodings to UTF-8 and drops the byte
// order mark; writing replaces the target atomically.
package textfile
