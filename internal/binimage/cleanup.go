package binimage

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"binmerge/internal/logging"
)

// partialSuffix marks the temporary image Concat assembles before renaming.
const partialSuffix = ".partial"

// CleanupResult contains the outcome of a partial image cleanup.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanPartials removes temporary images older than maxAge left in dir by
// interrupted runs. Callers must hold the directory lock so no live run's
// temporary file is touched.
func CleanPartials(dir string, maxAge time.Duration, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, partialSuffix) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove partial image",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "partial_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check output directory permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed partial image",
				logging.String("path", path),
				logging.Uint64("size_bytes", uint64(info.Size())),
				logging.String(logging.FieldEventType, "partial_cleanup"),
			)
		}
	}
	return result
}
