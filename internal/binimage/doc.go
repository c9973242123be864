// Package binimage concatenates the payload files named by a CUE sheet into a
// single image, in sheet order, verifying every copied length against the
// size recorded in the sheet.
package binimage
