package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"binmerge/internal/logging"
)

// Handler processes one settled sheet. Errors are logged and do not stop the
// watcher.
type Handler func(ctx context.Context, cuePath string) error

// Watcher monitors a single directory, non-recursively.
type Watcher struct {
	Dir    string
	Settle time.Duration
	// InitialScan queues sheets already present when Run starts.
	InitialScan bool

	handler Handler
	logger  *slog.Logger
	pending map[string]time.Time
}

// New returns a watcher for dir.
func New(dir string, settle time.Duration, handler Handler, logger *slog.Logger) *Watcher {
	if settle < 0 {
		settle = 0
	}
	return &Watcher{
		Dir:     filepath.Clean(dir),
		Settle:  settle,
		handler: handler,
		logger:  logging.NewComponentLogger(logger, "watch"),
		pending: make(map[string]time.Time),
	}
}

// Run blocks until ctx is cancelled, invoking the handler one sheet at a time.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if w.handler == nil {
		return errors.New("watch: handler is required")
	}
	info, err := os.Stat(w.Dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.Dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	if w.InitialScan {
		if err := w.scan(); err != nil {
			return err
		}
	}

	w.logger.Info("watching for cue sheets",
		logging.String(logging.FieldEventType, "watch_started"),
		logging.String("dir", w.Dir),
		logging.Duration("settle", w.Settle),
	)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	w.arm(timer)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", logging.String(logging.FieldEventType, "watch_stopped"))
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
			w.arm(timer)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check inotify limits and directory permissions"),
				logging.String(logging.FieldImpact, "new sheets may be missed until restart"),
			)
		case <-timer.C:
			w.flush(ctx, time.Now())
			w.arm(timer)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !IsSheet(event.Name) || filepath.Dir(event.Name) != w.Dir {
		return
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.logger.Debug("sheet changed",
			logging.String("path", event.Name),
			logging.String("op", event.Op.String()),
		)
		w.pending[event.Name] = time.Now()
	}
}

func (w *Watcher) scan() error {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.Dir, err)
	}
	now := time.Now()
	for _, e := range entries {
		if e.Type().IsRegular() && IsSheet(e.Name()) {
			w.pending[filepath.Join(w.Dir, e.Name())] = now
		}
	}
	return nil
}

// flush runs the handler for every sheet whose last change is older than
// the settle delay, oldest first.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.Settle {
			ready = append(ready, path)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		return w.pending[ready[i]].Before(w.pending[ready[j]])
	})
	for _, path := range ready {
		delete(w.pending, path)
		if ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		w.logger.Info("sheet settled",
			logging.String(logging.FieldEventType, "watch_sheet_ready"),
			logging.String("path", path),
		)
		if err := w.handler(ctx, path); err != nil {
			logging.WarnWithContext(w.logger, "sheet handler failed", "watch_handler_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "sheet was not merged"),
			)
		}
	}
}

// arm schedules the timer for the earliest pending deadline.
func (w *Watcher) arm(timer *time.Timer) {
	if len(w.pending) == 0 {
		timer.Stop()
		return
	}
	var next time.Time
	for _, changed := range w.pending {
		if deadline := changed.Add(w.Settle); next.IsZero() || deadline.Before(next) {
			next = deadline
		}
	}
	timer.Reset(max(time.Until(next), 0))
}

// IsSheet reports whether name has a .cue extension, in any case.
func IsSheet(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".cue")
}
