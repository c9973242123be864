package cue

import (
	"fmt"
	"log/slog"

	"binmerge/internal/logging"
)

// Index is an addressable point inside a TRACK. Offset is in bytes from the
// start of the owning FILE's payload and is always sector aligned for the
// track's type.
type Index struct {
	ID     uint8  `json:"id"`
	Offset uint32 `json:"offset"`
}

// Track is a numbered logical track within a FILE.
type Track struct {
	ID      uint8     `json:"id"`
	Type    TrackType `json:"type"`
	Indexes []Index   `json:"indexes"`
}

// File names one binary payload and the tracks stored in it. Bytes stays zero
// until the payload size is looked up.
type File struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Bytes  uint32  `json:"bytes"`
	Tracks []Track `json:"tracks"`
}

// FileType parses the raw filetype token.
func (f *File) FileType() FileType {
	return ParseFileType(f.Type)
}

// Sheet is the FILE -> TRACK -> INDEX tree of one CUE document.
//
// Files is exported for reading. Mutate the tree through the Push and Pop
// methods so the structural rules hold; File.Bytes is the one field callers
// are expected to set directly.
type Sheet struct {
	Files []File `json:"files"`

	logger *slog.Logger
}

// New returns an empty sheet that reports advisory conditions to logger.
func New(logger *slog.Logger) *Sheet {
	s := &Sheet{}
	s.SetLogger(logger)
	return s
}

// SetLogger replaces the logger used for advisory warnings. A nil logger
// silences them.
func (s *Sheet) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "cue")
}

func (s *Sheet) log() *slog.Logger {
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s.logger
}

// LastFile returns the most recently pushed FILE, or nil.
func (s *Sheet) LastFile() *File {
	if len(s.Files) == 0 {
		return nil
	}
	return &s.Files[len(s.Files)-1]
}

// LastTrack returns the last TRACK of the last FILE, or nil.
func (s *Sheet) LastTrack() *Track {
	f := s.LastFile()
	if f == nil || len(f.Tracks) == 0 {
		return nil
	}
	return &f.Tracks[len(f.Tracks)-1]
}

// LastIndex returns the last INDEX of the last TRACK, or nil.
func (s *Sheet) LastIndex() *Index {
	t := s.LastTrack()
	if t == nil || len(t.Indexes) == 0 {
		return nil
	}
	return &t.Indexes[len(t.Indexes)-1]
}

// PushFile appends a FILE. An unknown filetype is tolerated and logged.
func (s *Sheet) PushFile(name, filetype string) *File {
	if ParseFileType(filetype) == FileUnknown {
		s.log().Warn("unknown FILE type",
			logging.String("file", name),
			logging.String("file_type", filetype),
		)
	}
	s.Files = append(s.Files, File{Name: name, Type: filetype})
	return s.LastFile()
}

// PushTrack appends a TRACK to the last FILE.
//
// An id above MaxID returns a *BoundError and nothing is appended; callers
// may treat it as a warning. A TRACK before any FILE returns ErrNoFile.
func (s *Sheet) PushTrack(id int, t TrackType) error {
	if id < 0 || id > MaxID {
		err := &BoundError{Kind: LineTrack, ID: id}
		s.log().Warn("skipping TRACK", logging.Error(err))
		return err
	}
	f := s.LastFile()
	if f == nil {
		return ErrNoFile
	}
	if !t.Valid() {
		s.log().Warn("unknown TRACK type",
			logging.Int("track", id),
			logging.String("file", f.Name),
		)
	}
	f.Tracks = append(f.Tracks, Track{ID: uint8(id), Type: t})
	return nil
}

// PushIndex appends an INDEX to the last TRACK of the last FILE.
//
// An id above MaxID returns a *BoundError and nothing is appended. The offset
// must be a whole number of sectors for the track's type.
func (s *Sheet) PushIndex(id int, offset uint32) error {
	if id < 0 || id > MaxID {
		err := &BoundError{Kind: LineIndex, ID: id}
		s.log().Warn("skipping INDEX", logging.Error(err))
		return err
	}
	t := s.LastTrack()
	if t == nil {
		return ErrNoTrack
	}
	size := SectorSize(t.Type)
	if size == 0 {
		return ErrInvalidTrackType
	}
	if offset%size != 0 {
		return fmt.Errorf("%w: INDEX %02d offset %d in TRACK %02d %s", ErrSectorMisaligned, id, offset, t.ID, t.Type)
	}
	t.Indexes = append(t.Indexes, Index{ID: uint8(id), Offset: offset})
	return nil
}

// PopFile removes the last FILE together with its tracks.
func (s *Sheet) PopFile() error {
	if len(s.Files) == 0 {
		return ErrEmpty
	}
	s.Files[len(s.Files)-1] = File{}
	s.Files = s.Files[:len(s.Files)-1]
	return nil
}

// PopTrack removes the last TRACK of the last FILE.
func (s *Sheet) PopTrack() error {
	f := s.LastFile()
	if f == nil {
		return ErrNoFile
	}
	if len(f.Tracks) == 0 {
		return ErrEmpty
	}
	f.Tracks[len(f.Tracks)-1] = Track{}
	f.Tracks = f.Tracks[:len(f.Tracks)-1]
	return nil
}

// PopIndex removes the last INDEX of the last TRACK.
func (s *Sheet) PopIndex() error {
	t := s.LastTrack()
	if t == nil {
		return ErrNoTrack
	}
	if len(t.Indexes) == 0 {
		return ErrEmpty
	}
	t.Indexes = t.Indexes[:len(t.Indexes)-1]
	return nil
}

// Clear drops every FILE, TRACK and INDEX.
func (s *Sheet) Clear() {
	s.Files = nil
}

// Empty reports whether the sheet has no FILE entries.
func (s *Sheet) Empty() bool {
	return len(s.Files) == 0
}

// CopyTo replaces target's contents with a deep copy of s. The copy is built
// through the push operations, so a sheet that breaks the structural rules
// fails here; target is left cleared in that case.
func (s *Sheet) CopyTo(target *Sheet) error {
	if target == s {
		return nil
	}
	target.Clear()
	for _, f := range s.Files {
		nf := target.pushFileQuiet(f.Name, f.Type)
		nf.Bytes = f.Bytes
		for _, t := range f.Tracks {
			if err := target.pushTrackQuiet(int(t.ID), t.Type); err != nil {
				target.Clear()
				return err
			}
			for _, idx := range t.Indexes {
				if err := target.PushIndex(int(idx.ID), idx.Offset); err != nil {
					target.Clear()
					return err
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of s sharing its logger.
func (s *Sheet) Clone() *Sheet {
	out := &Sheet{logger: s.logger}
	out.Files = make([]File, 0, len(s.Files))
	for _, f := range s.Files {
		nf := File{Name: f.Name, Type: f.Type, Bytes: f.Bytes, Tracks: make([]Track, 0, len(f.Tracks))}
		for _, t := range f.Tracks {
			nt := Track{ID: t.ID, Type: t.Type, Indexes: append([]Index(nil), t.Indexes...)}
			nf.Tracks = append(nf.Tracks, nt)
		}
		out.Files = append(out.Files, nf)
	}
	return out
}

// TotalBytes sums the payload sizes of every FILE.
func (s *Sheet) TotalBytes() uint64 {
	var total uint64
	for _, f := range s.Files {
		total += uint64(f.Bytes)
	}
	return total
}

// TrackCount returns the number of tracks across all files.
func (s *Sheet) TrackCount() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Tracks)
	}
	return n
}

// pushFileQuiet and pushTrackQuiet skip the advisory logging; the source
// sheet already reported those conditions when it was built.
func (s *Sheet) pushFileQuiet(name, filetype string) *File {
	s.Files = append(s.Files, File{Name: name, Type: filetype})
	return s.LastFile()
}

func (s *Sheet) pushTrackQuiet(id int, t TrackType) error {
	if id < 0 || id > MaxID {
		return &BoundError{Kind: LineTrack, ID: id}
	}
	f := s.LastFile()
	if f == nil {
		return ErrNoFile
	}
	f.Tracks = append(f.Tracks, Track{ID: uint8(id), Type: t})
	return nil
}
