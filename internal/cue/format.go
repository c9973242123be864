package cue

import (
	"fmt"
	"strings"
)

// LineEnding terminates every serialized line. Disc-authoring tools expect
// CRLF regardless of host platform.
const LineEnding = "\r\n"

// FileLine renders a FILE line.
func FileLine(f *File) string {
	return fmt.Sprintf("FILE \"%s\" %s", f.Name, f.Type)
}

// TrackLine renders a TRACK line.
func TrackLine(t *Track) string {
	return fmt.Sprintf("  TRACK %02d %s", t.ID, t.Type)
}

// IndexLine renders an INDEX line; the offset is converted with the owning
// track's type.
func IndexLine(idx *Index, t TrackType) (string, error) {
	ts, err := BytesToTimestamp(idx.Offset, t)
	if err != nil {
		return "", fmt.Errorf("INDEX %02d: %w", idx.ID, err)
	}
	return fmt.Sprintf("    INDEX %02d %s", idx.ID, ts), nil
}

// Lines renders the sheet as CUE lines without terminators.
func (s *Sheet) Lines() ([]string, error) {
	lines := make([]string, 0, len(s.Files)*4)
	for fi := range s.Files {
		f := &s.Files[fi]
		lines = append(lines, FileLine(f))
		for ti := range f.Tracks {
			t := &f.Tracks[ti]
			lines = append(lines, TrackLine(t))
			for ii := range t.Indexes {
				line, err := IndexLine(&t.Indexes[ii], t.Type)
				if err != nil {
					return nil, fmt.Errorf("FILE %q TRACK %02d: %w", f.Name, t.ID, err)
				}
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

// Text renders the canonical CUE text with CRLF line endings.
func (s *Sheet) Text() ([]byte, error) {
	lines, err := s.Lines()
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString(LineEnding)
	}
	return []byte(b.String()), nil
}

// String renders the sheet like Text. An index that cannot be written
// as a timestamp is shown as INVALID so the output is still readable.
func (s *Sheet) String() string {
	var b strings.Builder
	for fi := range s.Files {
		f := &s.Files[fi]
		b.WriteString(FileLine(f) + LineEnding)
		for ti := range f.Tracks {
			t := &f.Tracks[ti]
			b.WriteString(TrackLine(t) + LineEnding)
			for ii := range t.Indexes {
				line, err := IndexLine(&t.Indexes[ii], t.Type)
				if err != nil {
					line = fmt.Sprintf("    INDEX %02d INVALID", t.Indexes[ii].ID)
				}
				b.WriteString(line + LineEnding)
			}
		}
	}
	return b.String()
}
