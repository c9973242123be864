package merge

import (
	"context"
	"errors"

	"binmerge/internal/binimage"
)

var (
	// ErrNoSheet is returned when an input directory holds no .cue file.
	ErrNoSheet = errors.New("merge: no .cue file found")
	// ErrInvalidName is returned for an output name that is not a bare
	// filename ending in .cue.
	ErrInvalidName = errors.New("merge: output name must be a bare filename ending in .cue")
	// ErrOverwritesSource is returned when an output path would replace the
	// input sheet or one of its payloads.
	ErrOverwritesSource = errors.New("merge: output would overwrite an input file")
	// ErrOutputExists aliases binimage.ErrOutputExists so callers match either
	// the image or the sheet already existing.
	ErrOutputExists = binimage.ErrOutputExists
	// ErrLocked is returned when another run holds the output directory lock.
	ErrLocked = errors.New("merge: output directory is locked by another run")
)

const (
	KindCancelled = "cancelled"
	KindUsage     = "usage"
	KindInternal  = "internal"
)

// ErrorKind classifies err for logs and history: typed errors report their
// own kind, cancellation and usage mistakes get fixed kinds.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	var kinded interface{ ErrorKind() string }
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrNoSheet),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrOverwritesSource),
		errors.Is(err, ErrOutputExists),
		errors.Is(err, ErrLocked):
		return KindUsage
	}
	return KindInternal
}
