package cue

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiles is returned by Combine for a sheet without FILE entries.
	ErrNoFiles = errors.New("cue: sheet has no FILE entries")
	// ErrNoFile is returned when a TRACK is pushed before any FILE.
	ErrNoFile = errors.New("cue: TRACK has no parent FILE")
	// ErrNoTrack is returned when an INDEX is pushed before any TRACK of the current FILE.
	ErrNoTrack = errors.New("cue: INDEX has no parent TRACK")
	// ErrSectorMisaligned marks a byte count that is not a whole number of sectors.
	ErrSectorMisaligned = errors.New("cue: bytes are not a multiple of the sector size")
	// ErrInvalidTrackType marks arithmetic requested for TrackInvalid.
	ErrInvalidTrackType = errors.New("cue: invalid track type")
	// ErrTimestampRange marks an offset that would need more than 99 minutes.
	ErrTimestampRange = errors.New("cue: timestamp exceeds 99 minutes")
	// ErrMalformedTimestamp marks text that is not a strict MM:SS:FF timestamp.
	ErrMalformedTimestamp = errors.New("cue: malformed timestamp")
	// ErrMalformedLine marks an unrecognised or unparseable CUE line.
	ErrMalformedLine = errors.New("cue: malformed line")
	// ErrIDRange marks a TRACK or INDEX id outside 0..99.
	ErrIDRange = errors.New("cue: id out of range")
	// ErrEmpty is returned by the Pop operations when there is nothing to remove.
	ErrEmpty = errors.New("cue: nothing to pop")
	// ErrPayloadTooLarge marks byte totals that no longer fit the 32-bit model.
	ErrPayloadTooLarge = errors.New("cue: payload exceeds 4 GiB")
	// ErrOrphanIndex marks an INDEX skipped because its TRACK was skipped.
	ErrOrphanIndex = errors.New("cue: INDEX belongs to a skipped TRACK")
)

// Error kinds reported by ErrorKind.
const (
	KindParse    = "parse"
	KindBound    = "bound"
	KindAdvisory = "advisory"
)

// BoundError reports a TRACK or INDEX id above MaxID. The push that produced it
// was skipped; the rest of the sheet is still usable.
type BoundError struct {
	Kind LineKind
	ID   int
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("cue: %s id %d exceeds %d", e.Kind, e.ID, MaxID)
}

func (e *BoundError) Unwrap() error { return ErrIDRange }

// ErrorKind classifies the error for callers deciding between abort and warn.
func (e *BoundError) ErrorKind() string { return KindBound }

// ParseError wraps a fatal error with the line that caused it.
type ParseError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cue: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for callers deciding between abort and warn.
func (e *ParseError) ErrorKind() string { return KindParse }

// IsWarning reports whether err only describes a skipped push.
func IsWarning(err error) bool {
	var bound *BoundError
	return errors.As(err, &bound) || errors.Is(err, ErrOrphanIndex)
}
