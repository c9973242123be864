package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with size copies of fill. A size <= 0
// writes a single byte.
func WriteFile(t testing.TB, path string, size int64, fill byte) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := bytes.Repeat([]byte{fill}, chunkSize)

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteText writes text verbatim, creating parent directories.
func WriteText(t testing.TB, path, text string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Disc describes a multi-file image fixture: the sheet name and the sector
// count of each payload.
type Disc struct {
	Name    string
	Sectors []int
}

// WriteDisc writes a raw 2352-byte-sector fixture into dir: one payload per
// entry in d.Sectors named "<Name> (Track N).bin", each filled with the byte
// N, plus "<Name>.cue" describing a MODE2/2352 data track followed by AUDIO
// tracks with a two second pregap. It returns the sheet path.
func WriteDisc(t testing.TB, dir string, d Disc) string {
	t.Helper()
	var cue bytes.Buffer
	for i, sectors := range d.Sectors {
		n := i + 1
		bin := fmt.Sprintf("%s (Track %d).bin", d.Name, n)
		WriteFile(t, filepath.Join(dir, bin), int64(sectors)*2352, byte(n))
		fmt.Fprintf(&cue, "FILE \"%s\" BINARY\r\n", bin)
		if n == 1 {
			cue.WriteString("  TRACK 01 MODE2/2352\r\n    INDEX 01 00:00:00\r\n")
			continue
		}
		fmt.Fprintf(&cue, "  TRACK %02d AUDIO\r\n    INDEX 00 00:00:00\r\n    INDEX 01 00:02:00\r\n", n)
	}
	path := filepath.Join(dir, d.Name+".cue")
	WriteText(t, path, cue.String())
	return path
}
