// Package volume reads filesystem metadata from cooked data-track payloads.
//
// Only the ISO9660 primary volume descriptor is consulted; inspect uses the
// label to identify MODE1/2048 data tracks.
package volume
