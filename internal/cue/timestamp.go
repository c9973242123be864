package cue

import (
	"fmt"
	"math"
)

const (
	// FramesPerSecond is the number of sectors (frames) in one second of CD
	// time. Redbook offsets are written as MM:SS:FF with FF in 0..74.
	FramesPerSecond = 75
	// SecondsPerMinute bounds the SS field.
	SecondsPerMinute = 60
	// MaxMinutes is the largest MM value a CUE timestamp can carry.
	MaxMinutes = 99
	// MaxID is the largest TRACK or INDEX id; ids are written as two digits.
	MaxID = 99
	// NoValue is returned alongside an error by TimestampToBytes. It is never a
	// valid offset.
	NoValue uint32 = math.MaxUint32
)

// SectorSize returns the bytes per sector for a track type, or 0 for
// TrackInvalid.
func SectorSize(t TrackType) uint32 {
	switch t {
	case TrackAudio, TrackMode1_2352, TrackMode2_2352, TrackCDI_2352:
		return 2352
	case TrackCDG:
		return 2448
	case TrackMode1_2048:
		return 2048
	case TrackMode2_2336, TrackCDI_2336:
		return 2336
	default:
		return 0
	}
}

// Aligned reports whether bytes is a whole number of sectors of type t.
func Aligned(bytes uint32, t TrackType) bool {
	size := SectorSize(t)
	return size != 0 && bytes%size == 0
}

// BytesToTimestamp converts a byte offset into an MM:SS:FF timestamp for a
// track of type t. Misaligned offsets are an error, never rounded.
func BytesToTimestamp(bytes uint32, t TrackType) (string, error) {
	size := SectorSize(t)
	if size == 0 {
		return "", ErrInvalidTrackType
	}
	if bytes == NoValue {
		return "", fmt.Errorf("%w: no value", ErrMalformedTimestamp)
	}
	sectors, rem := bytes/size, bytes%size
	if rem != 0 {
		return "", fmt.Errorf("%w: %d bytes with %d-byte %s sectors", ErrSectorMisaligned, bytes, size, t)
	}

	seconds, frames := sectors/FramesPerSecond, sectors%FramesPerSecond
	minutes, seconds := seconds/SecondsPerMinute, seconds%SecondsPerMinute
	if minutes > MaxMinutes {
		return "", fmt.Errorf("%w: %d minutes", ErrTimestampRange, minutes)
	}
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames), nil
}

// TimestampToBytes converts a strict MM:SS:FF timestamp into a byte offset for
// a track of type t. On failure it returns NoValue and the reason.
//
// SS must be below 60 and FF below 75 so that the conversion stays the exact
// inverse of BytesToTimestamp.
func TimestampToBytes(ts string, t TrackType) (uint32, error) {
	size := SectorSize(t)
	if size == 0 {
		return NoValue, ErrInvalidTrackType
	}
	minutes, seconds, frames, ok := splitTimestamp(ts)
	if !ok {
		return NoValue, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}
	if seconds >= SecondsPerMinute || frames >= FramesPerSecond {
		return NoValue, fmt.Errorf("%w: %q out of range", ErrMalformedTimestamp, ts)
	}
	sectors := (minutes*SecondsPerMinute+seconds)*FramesPerSecond + frames
	return sectors * size, nil
}

// splitTimestamp accepts exactly "DD:DD:DD".
func splitTimestamp(ts string) (minutes, seconds, frames uint32, ok bool) {
	if len(ts) != 8 || ts[2] != ':' || ts[5] != ':' {
		return 0, 0, 0, false
	}
	field := func(i int) (uint32, bool) {
		hi, lo := ts[i], ts[i+1]
		if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
			return 0, false
		}
		return uint32(hi-'0')*10 + uint32(lo-'0'), true
	}
	var okM, okS, okF bool
	minutes, okM = field(0)
	seconds, okS = field(3)
	frames, okF = field(6)
	return minutes, seconds, frames, okM && okS && okF
}
