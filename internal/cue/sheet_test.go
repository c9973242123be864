package cue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushRequiresParents(t *testing.T) {
	s := New(nil)
	assert.ErrorIs(t, s.PushTrack(1, TrackAudio), ErrNoFile)
	assert.ErrorIs(t, s.PushIndex(1, 0), ErrNoTrack)

	s.PushFile("a.bin", "BINARY")
	assert.ErrorIs(t, s.PushIndex(1, 0), ErrNoTrack)
	require.NoError(t, s.PushTrack(1, TrackAudio))
	require.NoError(t, s.PushIndex(1, 0))
	assert.Equal(t, 1, s.TrackCount())
}

func TestPushIDBounds(t *testing.T) {
	s := New(nil)
	s.PushFile("a.bin", "BINARY")

	require.NoError(t, s.PushTrack(99, TrackAudio))
	err := s.PushTrack(100, TrackAudio)
	assert.ErrorIs(t, err, ErrIDRange)
	assert.True(t, IsWarning(err))
	assert.Equal(t, 1, s.TrackCount())

	require.NoError(t, s.PushIndex(99, 2352))
	err = s.PushIndex(100, 0)
	var bound *BoundError
	require.ErrorAs(t, err, &bound)
	assert.Equal(t, LineIndex, bound.Kind)
	assert.Equal(t, 100, bound.ID)
	assert.Len(t, s.LastTrack().Indexes, 1)
}

func TestPushIndexAlignment(t *testing.T) {
	s := New(nil)
	s.PushFile("a.bin", "BINARY")
	require.NoError(t, s.PushTrack(1, TrackMode1_2048))
	assert.ErrorIs(t, s.PushIndex(1, 2352), ErrSectorMisaligned)
	require.NoError(t, s.PushIndex(1, 4096))

	require.NoError(t, s.PushTrack(2, TrackInvalid))
	assert.ErrorIs(t, s.PushIndex(1, 0), ErrInvalidTrackType)
}

func TestPop(t *testing.T) {
	s := New(nil)
	assert.ErrorIs(t, s.PopFile(), ErrEmpty)
	assert.ErrorIs(t, s.PopTrack(), ErrNoFile)
	assert.ErrorIs(t, s.PopIndex(), ErrNoTrack)

	s.PushFile("a.bin", "BINARY")
	require.NoError(t, s.PushTrack(1, TrackAudio))
	require.NoError(t, s.PushIndex(0, 0))
	require.NoError(t, s.PushIndex(1, 2352))

	require.NoError(t, s.PopIndex())
	assert.Equal(t, uint8(0), s.LastIndex().ID)
	require.NoError(t, s.PopIndex())
	assert.Nil(t, s.LastIndex())
	assert.ErrorIs(t, s.PopIndex(), ErrEmpty)

	require.NoError(t, s.PopTrack())
	assert.ErrorIs(t, s.PopTrack(), ErrEmpty)
	require.NoError(t, s.PopFile())
	assert.True(t, s.Empty())
}

func TestCopyToAndClone(t *testing.T) {
	src := New(nil)
	src.PushFile("a.bin", "BINARY").Bytes = 2352 * 10
	require.NoError(t, src.PushTrack(1, TrackMode2_2352))
	require.NoError(t, src.PushIndex(1, 0))
	src.PushFile("b.bin", "BINARY").Bytes = 2352 * 5
	require.NoError(t, src.PushTrack(2, TrackAudio))
	require.NoError(t, src.PushIndex(0, 0))
	require.NoError(t, src.PushIndex(1, 2352*2))

	dst := New(nil)
	dst.PushFile("stale.bin", "BINARY")
	require.NoError(t, src.CopyTo(dst))
	assert.Equal(t, src.Files, dst.Files)

	dst.Files[1].Tracks[0].Indexes[0].Offset = 2352
	assert.Equal(t, uint32(0), src.Files[1].Tracks[0].Indexes[0].Offset)

	clone := src.Clone()
	assert.Equal(t, src.Files, clone.Files)
	clone.Files[0].Tracks[0].Indexes[0].Offset = 2352
	assert.Equal(t, uint32(0), src.Files[0].Tracks[0].Indexes[0].Offset)

	assert.Equal(t, uint64(2352*15), src.TotalBytes())
	assert.Equal(t, 2, src.TrackCount())
}

func TestCopyToRejectsBrokenSheet(t *testing.T) {
	src := &Sheet{Files: []File{{
		Name: "a.bin", Type: "BINARY",
		Tracks: []Track{{ID: 1, Type: TrackAudio, Indexes: []Index{{ID: 1, Offset: 17}}}},
	}}}
	dst := New(nil)
	dst.PushFile("keep.bin", "BINARY")
	assert.ErrorIs(t, src.CopyTo(dst), ErrSectorMisaligned)
	assert.True(t, dst.Empty())
}

func TestSheetText(t *testing.T) {
	s := New(nil)
	s.PushFile("Game (Track 1).bin", "BINARY")
	require.NoError(t, s.PushTrack(1, TrackMode2_2352))
	require.NoError(t, s.PushIndex(1, 0))
	require.NoError(t, s.PushTrack(2, TrackAudio))
	require.NoError(t, s.PushIndex(0, 2352*10))
	require.NoError(t, s.PushIndex(1, 2352*160))

	text, err := s.Text()
	require.NoError(t, err)
	want := "FILE \"Game (Track 1).bin\" BINARY\r\n" +
		"  TRACK 01 MODE2/2352\r\n" +
		"    INDEX 01 00:00:00\r\n" +
		"  TRACK 02 AUDIO\r\n" +
		"    INDEX 00 00:00:10\r\n" +
		"    INDEX 01 00:02:10\r\n"
	assert.Equal(t, want, string(text))
	assert.Equal(t, want, s.String())
}

func TestSheetTextReportsRange(t *testing.T) {
	s := &Sheet{Files: []File{{
		Name: "a.bin", Type: "BINARY",
		Tracks: []Track{{ID: 1, Type: TrackMode1_2048, Indexes: []Index{{ID: 1, Offset: 100 * 60 * 75 * 2048}}}},
	}}}
	_, err := s.Text()
	assert.ErrorIs(t, err, ErrTimestampRange)
	assert.Contains(t, s.String(), "INDEX 01 INVALID")
}

func TestSheetJSONKeepsTree(t *testing.T) {
	s := New(nil)
	s.PushFile("a.bin", "BINARY").Bytes = 2352 * 4
	require.NoError(t, s.PushTrack(1, TrackAudio))
	require.NoError(t, s.PushIndex(1, 2352))

	data, err := json.Marshal(struct {
		Sheet *Sheet `json:"sheet"`
	}{s})
	require.NoError(t, err)

	var decoded struct {
		Sheet struct {
			Files []struct {
				Name   string `json:"name"`
				Bytes  uint32 `json:"bytes"`
				Tracks []struct {
					ID      uint8  `json:"id"`
					Type    string `json:"type"`
					Indexes []struct {
						ID     uint8  `json:"id"`
						Offset uint32 `json:"offset"`
					} `json:"indexes"`
				} `json:"tracks"`
			} `json:"files"`
		} `json:"sheet"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded), string(data))
	require.Len(t, decoded.Sheet.Files, 1)
	f := decoded.Sheet.Files[0]
	assert.Equal(t, "a.bin", f.Name)
	assert.Equal(t, uint32(2352*4), f.Bytes)
	require.Len(t, f.Tracks, 1)
	assert.Equal(t, "AUDIO", f.Tracks[0].Type)
	require.Len(t, f.Tracks[0].Indexes, 1)
	assert.Equal(t, uint32(2352), f.Tracks[0].Indexes[0].Offset)
}
