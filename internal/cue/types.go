package cue

import (
	"fmt"
	"strings"
)

// LineKind classifies a single line of CUE text.
type LineKind int

const (
	LineInvalid LineKind = iota
	LineFile
	LineTrack
	LineIndex
	LineRemark
)

var lineKindNames = [...]string{
	LineInvalid: "INVALID",
	LineFile:    "FILE",
	LineTrack:   "TRACK",
	LineIndex:   "INDEX",
	LineRemark:  "REM",
}

func (k LineKind) String() string {
	if k < 0 || int(k) >= len(lineKindNames) {
		return lineKindNames[LineInvalid]
	}
	return lineKindNames[k]
}

// ClassifyLine reports the kind of a raw CUE line by its leading keyword.
// Keywords are checked in the order INDEX, TRACK, FILE, REM and must match the
// first whitespace-delimited word exactly, so a FILE line whose quoted name
// contains "TRACK" is still a FILE line. Blank lines are LineInvalid; callers
// skip them before classifying.
func ClassifyLine(line string) LineKind {
	keyword := word(line, 1)
	switch {
	case keyword == "INDEX":
		return LineIndex
	case keyword == "TRACK":
		return LineTrack
	case keyword == "FILE":
		return LineFile
	case keyword == "REM":
		return LineRemark
	default:
		return LineInvalid
	}
}

// TrackType is the CD mode of a TRACK, which fixes its sector size.
type TrackType int

const (
	TrackInvalid TrackType = iota
	TrackAudio             // Audio/Music (2352, 588 samples)
	TrackCDG               // Karaoke CD+G (2448)
	TrackMode1_2048        // CD-ROM Mode 1 data, cooked
	TrackMode1_2352        // CD-ROM Mode 1 data, raw
	TrackMode2_2336        // CD-ROM XA Mode 2 data, form mix
	TrackMode2_2352        // CD-ROM XA Mode 2 data, raw
	TrackCDI_2336          // CD-i Mode 2 data
	TrackCDI_2352          // CD-i Mode 2 data
)

var trackTypeNames = [...]string{
	TrackInvalid:    "INVALID",
	TrackAudio:      "AUDIO",
	TrackCDG:        "CDG",
	TrackMode1_2048: "MODE1/2048",
	TrackMode1_2352: "MODE1/2352",
	TrackMode2_2336: "MODE2/2336",
	TrackMode2_2352: "MODE2/2352",
	TrackCDI_2336:   "CDI/2336",
	TrackCDI_2352:   "CDI/2352",
}

// ParseTrackType maps a TRACK type token to its TrackType. Matching is exact;
// anything unrecognised yields TrackInvalid.
func ParseTrackType(token string) TrackType {
	for i := TrackAudio; int(i) < len(trackTypeNames); i++ {
		if trackTypeNames[i] == token {
			return i
		}
	}
	return TrackInvalid
}

func (t TrackType) String() string {
	if t < 0 || int(t) >= len(trackTypeNames) {
		return trackTypeNames[TrackInvalid]
	}
	return trackTypeNames[t]
}

// Valid reports whether t is one of the CD track modes.
func (t TrackType) Valid() bool {
	return t > TrackInvalid && int(t) < len(trackTypeNames)
}

// MarshalText implements encoding.TextMarshaler.
func (t TrackType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TrackType) UnmarshalText(text []byte) error {
	parsed := ParseTrackType(strings.TrimSpace(string(text)))
	if parsed == TrackInvalid && string(text) != trackTypeNames[TrackInvalid] {
		return fmt.Errorf("%w: %q", ErrInvalidTrackType, text)
	}
	*t = parsed
	return nil
}

// FileType is the container type token that follows a FILE name.
type FileType int

const (
	FileUnknown FileType = iota
	FileBinary
	FileMotorola
	FileAIFF
	FileWave
	FileMP3
)

var fileTypeNames = [...]string{
	FileUnknown:  "UNKNOWN",
	FileBinary:   "BINARY",
	FileMotorola: "MOTOROLA",
	FileAIFF:     "AIFF",
	FileWave:     "WAVE",
	FileMP3:      "MP3",
}

// ParseFileType maps a FILE type token to its FileType, or FileUnknown.
func ParseFileType(token string) FileType {
	for i := FileBinary; int(i) < len(fileTypeNames); i++ {
		if fileTypeNames[i] == token {
			return i
		}
	}
	return FileUnknown
}

func (t FileType) String() string {
	if t < 0 || int(t) >= len(fileTypeNames) {
		return fileTypeNames[FileUnknown]
	}
	return fileTypeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t FileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown tokens decode to
// FileUnknown rather than failing, matching ParseFileType.
func (t *FileType) UnmarshalText(text []byte) error {
	*t = ParseFileType(strings.TrimSpace(string(text)))
	return nil
}
