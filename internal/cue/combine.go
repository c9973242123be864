package cue

import (
	"fmt"
	"math"

	"binmerge/internal/logging"
)

// Combine rewrites s into a single FILE describing the concatenation of every
// FILE payload in sheet order. Tracks and indexes keep their ids and order;
// each INDEX offset is moved by the total size of the files before it.
//
// name and filetype default to the first FILE's. File sizes must already be
// populated. On any error s is left unmodified.
func (s *Sheet) Combine(name, filetype string) error {
	combined, err := Combined(s, name, filetype)
	if err != nil {
		return err
	}
	return combined.CopyTo(s)
}

// Combined returns the combined form of src without modifying it.
func Combined(src *Sheet, name, filetype string) (*Sheet, error) {
	if src.Empty() {
		return nil, ErrNoFiles
	}
	if name == "" {
		name = src.Files[0].Name
	}
	if filetype == "" {
		filetype = src.Files[0].Type
	}

	scratch := &Sheet{logger: src.logger}
	scratch.pushFileQuiet(name, filetype)

	var total uint64
	for _, f := range src.Files {
		if total > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %d bytes before FILE %q", ErrPayloadTooLarge, total, f.Name)
		}
		base := uint32(total)
		for _, t := range f.Tracks {
			if err := scratch.pushTrackQuiet(int(t.ID), t.Type); err != nil {
				return nil, fmt.Errorf("combine FILE %q: %w", f.Name, err)
			}
			for _, idx := range t.Indexes {
				offset := uint64(base) + uint64(idx.Offset)
				if offset > math.MaxUint32 {
					return nil, fmt.Errorf("%w: INDEX %02d of TRACK %02d", ErrPayloadTooLarge, idx.ID, t.ID)
				}
				if err := scratch.PushIndex(int(idx.ID), uint32(offset)); err != nil {
					return nil, fmt.Errorf("combine FILE %q TRACK %02d: %w", f.Name, t.ID, err)
				}
			}
		}
		total += uint64(f.Bytes)
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes in total", ErrPayloadTooLarge, total)
	}
	scratch.Files[0].Bytes = uint32(total)

	scratch.log().Debug("combined sheet",
		logging.Int("source_files", len(src.Files)),
		logging.Int("tracks", scratch.TrackCount()),
		logging.Uint64("bytes", total),
	)
	return scratch, nil
}

// FileOffsets returns the byte position at which each FILE's payload starts
// in the concatenated image.
func (s *Sheet) FileOffsets() []uint64 {
	offsets := make([]uint64, len(s.Files))
	var total uint64
	for i, f := range s.Files {
		offsets[i] = total
		total += uint64(f.Bytes)
	}
	return offsets
}
