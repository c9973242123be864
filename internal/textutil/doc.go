// Package textutil sanitizes user-supplied names before they become output
// file names or quoted FILE entries.
package textutil
