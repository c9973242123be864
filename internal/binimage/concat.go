package binimage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"binmerge/internal/cue"
	"binmerge/internal/cuefile"
	"binmerge/internal/logging"
)

// DefaultBufferSize is the copy chunk size used when Options.BufferSize is unset.
const DefaultBufferSize = 4 * 1024

var (
	// ErrOutputExists is returned when the output file exists and overwriting
	// was not requested.
	ErrOutputExists = errors.New("binimage: output file already exists")
	// ErrSizeMismatch is returned when a payload's length differs from the
	// size recorded in the sheet.
	ErrSizeMismatch = errors.New("binimage: payload size changed")
)

// Progress describes the state of a running concatenation.
type Progress struct {
	File        string
	Index       int // 0-based position of File in the sheet
	Count       int
	FileBytes   uint64
	FileCopied  uint64
	TotalBytes  uint64
	TotalCopied uint64
}

// Percent returns overall completion in the range 0..100.
func (p Progress) Percent() float64 {
	if p.TotalBytes == 0 {
		return 100
	}
	return float64(p.TotalCopied) * 100 / float64(p.TotalBytes)
}

// Options tunes Concat.
type Options struct {
	BufferSize int
	Overwrite  bool
	// Progress, when set, is called after every chunk.
	Progress func(Progress)
	Logger   *slog.Logger
}

// Result summarizes a finished concatenation.
type Result struct {
	Path    string
	Offsets []uint64
	Bytes   uint64
	SHA256  string
	Elapsed time.Duration
}

// Concat copies every FILE payload of sheet, resolved against inDir, into
// outPath. Sizes must already be populated. The image is assembled in a
// temporary file next to outPath and renamed into place only after every
// payload has been copied and verified.
func Concat(ctx context.Context, sheet *cue.Sheet, inDir, outPath string, opts Options) (Result, error) {
	if sheet.Empty() {
		return Result{}, cue.ErrNoFiles
	}
	if !opts.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return Result{}, fmt.Errorf("%w: %s", ErrOutputExists, outPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Result{}, &cuefile.IOError{Op: "stat", Path: outPath, Err: err}
		}
	}
	bufSize := opts.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	logger := logging.NewComponentLogger(opts.Logger, "binimage")

	start := time.Now()
	tmp, err := os.CreateTemp(filepath.Dir(outPath), "."+filepath.Base(outPath)+"-*.partial")
	if err != nil {
		return Result{}, &cuefile.IOError{Op: "create", Path: outPath, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	hasher := sha256.New()
	out := io.MultiWriter(tmp, hasher)
	buf := make([]byte, bufSize)
	sampler := logging.NewProgressSampler(10)

	state := Progress{Count: len(sheet.Files), TotalBytes: sheet.TotalBytes()}
	offsets := sheet.FileOffsets()
	for i, f := range sheet.Files {
		state.File, state.Index = f.Name, i
		state.FileBytes, state.FileCopied = uint64(f.Bytes), 0

		src := cuefile.PayloadPath(inDir, f.Name)
		counter := &progressWriter{state: &state, report: func(p Progress) {
			if opts.Progress != nil {
				opts.Progress(p)
			}
			if sampler.ShouldLog(p.Percent(), "") {
				logger.DebugContext(ctx, "copy progress",
					logging.String("file", p.File),
					logging.Int("percent", int(p.Percent())),
				)
			}
		}}
		copied, err := copyPayload(ctx, io.MultiWriter(out, counter), src, buf)
		if err != nil {
			return Result{}, err
		}
		if uint64(copied) != uint64(f.Bytes) {
			return Result{}, fmt.Errorf("%w: %s copied %d bytes, sheet expects %d", ErrSizeMismatch, src, copied, f.Bytes)
		}
		logger.InfoContext(ctx, "payload appended",
			logging.String("file", f.Name),
			logging.Uint64("offset_bytes", offsets[i]),
			logging.String("size", humanize.IBytes(uint64(copied))),
		)
	}

	if err := tmp.Sync(); err != nil {
		return Result{}, &cuefile.IOError{Op: "sync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return Result{}, &cuefile.IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		return Result{}, &cuefile.IOError{Op: "rename", Path: outPath, Err: err}
	}
	committed = true

	return Result{
		Path:    outPath,
		Offsets: offsets,
		Bytes:   state.TotalCopied,
		SHA256:  hex.EncodeToString(hasher.Sum(nil)),
		Elapsed: time.Since(start),
	}, nil
}

func copyPayload(ctx context.Context, dst io.Writer, src string, buf []byte) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, &cuefile.IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	n, err := io.CopyBuffer(dst, &contextReader{ctx: ctx, r: in}, buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return n, ctxErr
		}
		return n, &cuefile.IOError{Op: "copy", Path: src, Err: err}
	}
	return n, nil
}

// contextReader stops a copy between chunks once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type progressWriter struct {
	state  *Progress
	report func(Progress)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.state.FileCopied += uint64(len(p))
	w.state.TotalCopied += uint64(len(p))
	w.report(*w.state)
	return len(p), nil
}
