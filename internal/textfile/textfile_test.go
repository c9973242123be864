package textfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

func TestSplitHandlesLineEndings(t *testing.T) {
	got := Split("FILE \"a.bin\" BINARY\r\n  TRACK 01 AUDIO\n\r\n    INDEX 01 00:00:00")
	assert.Equal(t, Lines{`FILE "a.bin" BINARY`, "  TRACK 01 AUDIO", "", "    INDEX 01 00:00:00"}, got)
	assert.Equal(t, 1, Split("one\n").Len(), "trailing newline adds no line")
	assert.Equal(t, 0, Split("").Len())
}

func TestLinesEditing(t *testing.T) {
	var l Lines
	l.Append("b")
	require.NoError(t, l.Insert(0, "a"))
	require.NoError(t, l.Insert(2, "d"))
	require.NoError(t, l.Insert(2, "c"))
	require.NoError(t, l.Replace(3, "D"))
	require.NoError(t, l.Remove(1))
	assert.Equal(t, Lines{"a", "c", "D"}, l)

	assert.ErrorIs(t, l.Insert(5, "x"), ErrLineRange)
	assert.ErrorIs(t, l.Replace(3, "x"), ErrLineRange)
	assert.ErrorIs(t, l.Remove(-1), ErrLineRange)
	assert.Equal(t, "a\r\nc\r\nD\r\n", l.Join("\r\n"))
}

func TestDecodeStripsBOM(t *testing.T) {
	text, used, err := Decode(append([]byte{0xEF, 0xBB, 0xBF}, "REM x\r\n"...), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, "REM x\r\n", text)
	assert.Equal(t, EncodingUTF8, used)
}

func TestDecodeAutoFallsBackToShiftJIS(t *testing.T) {
	want := "FILE \"ファイナルファンタジー (Track 1).bin\" BINARY"
	encoded, err := japanese.ShiftJIS.NewEncoder().String(want)
	require.NoError(t, err)

	text, used, err := Decode([]byte(encoded), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, EncodingShiftJIS, used)
	assert.Equal(t, want, text)
}

func TestDecodeExplicitGBK(t *testing.T) {
	want := "FILE \"仙剑奇侠传.bin\" BINARY"
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(want)
	require.NoError(t, err)

	text, used, err := Decode([]byte(encoded), EncodingGBK)
	require.NoError(t, err)
	assert.Equal(t, EncodingGBK, used)
	assert.Equal(t, want, text)
}

func TestDecodeUTF16WithBOM(t *testing.T) {
	want := "REM COMMENT\r\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(want)
	require.NoError(t, err)

	text, used, err := Decode([]byte(encoded), EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF16, used)
	assert.Equal(t, want, text)
}

func TestDecodeStrictUTF8Rejects(t *testing.T) {
	_, _, err := Decode([]byte{0x83, 0x51}, EncodingUTF8)
	assert.ErrorIs(t, err, ErrUndecodable)

	_, _, err = Decode([]byte("x"), "latin-1")
	assert.Error(t, err)
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.cue")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	lines := []string{`FILE "game.bin" BINARY`, "  TRACK 01 MODE2/2352"}
	require.NoError(t, Write(path, lines, "\r\n"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FILE \"game.bin\" BINARY\r\n  TRACK 01 MODE2/2352\r\n", string(raw))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, lines, []string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.cue"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
