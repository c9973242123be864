package textfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Read loads path as UTF-8 text.
func Read(path string) (Lines, error) {
	lines, _, err := ReadDecoded(path, EncodingUTF8)
	return lines, err
}

// ReadDecoded loads path, decoding it with enc (see Decode), and returns the
// lines along with the encoding that was applied.
func ReadDecoded(path, enc string) (Lines, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	text, used, err := Decode(data, enc)
	if err != nil {
		return nil, used, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return Split(text), used, nil
}

// Write replaces path with lines, each terminated by eol. The data goes to a
// temporary file in the same directory which is then renamed over path, so
// readers never observe a partial file.
func Write(path string, lines []string, eol string) error {
	return writeFileAtomic(path, []byte(Lines(lines).Join(eol)), 0o644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
