package cuefile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"binmerge/internal/cue"
	"binmerge/internal/logging"
	"binmerge/internal/textfile"
)

// File is a CUE sheet on disk.
type File struct {
	Path string
	// Encoding is passed to textfile.Decode; empty means auto.
	Encoding string
	// StrictIDs turns TRACK or INDEX ids above 99 into read failures.
	StrictIDs bool
	Logger    *slog.Logger

	// Detected is the encoding applied by the last read.
	Detected string
	// Warnings holds the lines skipped by the last read.
	Warnings []error
}

// Open returns a File for path with default settings.
func Open(path string) *File {
	return &File{Path: path}
}

// Dir is the directory payload names are resolved against.
func (f *File) Dir() string {
	return filepath.Dir(f.Path)
}

// Read parses the sheet. Unreadable files fail with *IOError; malformed text
// fails with *cue.ParseError.
func (f *File) Read(ctx context.Context) (*cue.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	enc := f.Encoding
	if enc == "" {
		enc = textfile.EncodingAuto
	}
	lines, used, err := textfile.ReadDecoded(f.Path, enc)
	if err != nil {
		return nil, &IOError{Op: "read", Path: f.Path, Err: err}
	}
	f.Detected = used

	logger := logging.NewComponentLogger(f.Logger, "cuefile")
	parser := cue.Parser{Logger: f.Logger, StrictIDs: f.StrictIDs}
	sheet, err := parser.ParseLines(lines)
	f.Warnings = parser.Warnings
	if err != nil {
		return nil, err
	}
	for _, w := range parser.Warnings {
		logging.WarnWithContext(logger, "cue line skipped", "cue_line_skipped",
			logging.String("cue", f.Path),
			logging.Error(w),
			logging.String(logging.FieldImpact, "entry is missing from the combined sheet"),
			logging.String(logging.FieldErrorHint, "ids above 99 cannot be written; fix the source sheet or enable cue.strict_ids"),
		)
	}
	logger.Debug("cue read",
		logging.String("cue", f.Path),
		logging.String("encoding", used),
		logging.Int("files", len(sheet.Files)),
		logging.Int("tracks", sheet.TrackCount()),
	)
	return sheet, nil
}

// ReadInto replaces target's contents with the sheet at f.Path. target is left
// untouched when reading fails.
func (f *File) ReadInto(ctx context.Context, target *cue.Sheet) error {
	sheet, err := f.Read(ctx)
	if err != nil {
		return err
	}
	return sheet.CopyTo(target)
}

// PopulateSizes sets Bytes on every FILE of sheet from the payload on disk.
// Names are resolved against baseDir, or the sheet's own directory when
// baseDir is empty.
func (f *File) PopulateSizes(ctx context.Context, sheet *cue.Sheet, baseDir string) error {
	if baseDir == "" {
		baseDir = f.Dir()
	}
	for i := range sheet.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &sheet.Files[i]
		size, err := FileBytes(PayloadPath(baseDir, entry.Name))
		if err != nil {
			return err
		}
		entry.Bytes = size
	}
	return nil
}

// Write stores sheet at f.Path in canonical CRLF form, replacing any
// existing file atomically.
func (f *File) Write(sheet *cue.Sheet) error {
	lines, err := sheet.Lines()
	if err != nil {
		return fmt.Errorf("render %s: %w", f.Path, err)
	}
	if err := textfile.Write(f.Path, lines, cue.LineEnding); err != nil {
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	return nil
}

// PayloadPath resolves a FILE name from a sheet against dir. Names are
// relative to the sheet unless absolute.
func PayloadPath(dir, name string) string {
	name = filepath.FromSlash(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// FileBytes returns the size of the file at path. Payloads of 4 GiB or more
// cannot be addressed by the sheet model and fail with cue.ErrPayloadTooLarge.
func FileBytes(path string) (uint32, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, &IOError{Op: "seek", Path: path, Err: err}
	}
	if end >= math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s is %d bytes", cue.ErrPayloadTooLarge, path, end)
	}
	return uint32(end), nil
}
