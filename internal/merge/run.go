package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"binmerge/internal/binimage"
	"binmerge/internal/config"
	"binmerge/internal/cue"
	"binmerge/internal/cuefile"
	"binmerge/internal/history"
	"binmerge/internal/logging"
	"binmerge/internal/preflight"
)

// LockFileName is created in the output directory while a run writes there.
const LockFileName = ".binmerge.lock"

// Report describes a finished run.
type Report struct {
	RunID string `json:"run_id"`
	Plan  Plan   `json:"plan"`
	// Source is the sheet as read, with payload sizes populated.
	Source *cue.Sheet `json:"source"`
	// Combined is the single-FILE sheet that was (or would be) written.
	Combined *cue.Sheet    `json:"combined"`
	Offsets  []uint64      `json:"offsets"`
	Bytes    uint64        `json:"bytes"`
	SHA256   string        `json:"sha256,omitempty"`
	Encoding string        `json:"encoding"`
	Warnings []string      `json:"warnings,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// RunnerOption configures optional Runner behavior.
type RunnerOption func(*Runner)

// WithHistory records every run in store.
func WithHistory(store *history.Store) RunnerOption {
	return func(r *Runner) {
		r.history = store
	}
}

// WithProgress forwards concatenation progress to fn.
func WithProgress(fn func(binimage.Progress)) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// Runner executes plans with a shared configuration.
type Runner struct {
	cfg      *config.Config
	base     *slog.Logger
	logger   *slog.Logger
	history  *history.Store
	progress func(binimage.Progress)
}

// NewRunner constructs a Runner. A nil cfg uses the defaults.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "merge"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes plan. The returned report is populated as far as the run got,
// so callers can show what was read even when a later step fails.
func (r *Runner) Run(ctx context.Context, plan Plan) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Plan: plan}
	ctx = logging.WithRunID(ctx, report.RunID)
	started := time.Now()

	r.logger.InfoContext(ctx, "merge started",
		logging.String(logging.FieldEventType, "merge_started"),
		logging.String("input", plan.Input),
		logging.String("output_dir", plan.OutputDir),
		logging.Bool("dry_run", plan.DryRun),
	)

	err := r.run(ctx, plan, report)
	report.Elapsed = time.Since(started)

	status := history.StatusSucceeded
	switch {
	case err != nil:
		status = history.StatusFailed
		r.logger.ErrorContext(ctx, "merge failed",
			logging.String(logging.FieldEventType, "merge_failed"),
			logging.String("error_kind", ErrorKind(err)),
			logging.Error(err),
		)
	case plan.DryRun:
		status = history.StatusDryRun
		r.logger.InfoContext(ctx, "dry run complete",
			logging.String(logging.FieldEventType, "merge_dry_run"),
			logging.Int("tracks", report.Combined.TrackCount()),
			logging.Uint64("total_bytes", report.Bytes),
		)
	default:
		r.logger.InfoContext(ctx, "merge complete",
			logging.String(logging.FieldEventType, "merge_completed"),
			logging.String("output_cue", plan.OutputCue),
			logging.String("output_bin", plan.OutputBin),
			logging.Uint64("total_bytes", report.Bytes),
			logging.Duration("elapsed", report.Elapsed),
		)
	}
	r.record(ctx, report, status, started, err)
	return report, err
}

func (r *Runner) run(ctx context.Context, plan Plan, report *Report) error {
	sheetFile := &cuefile.File{
		Path:      plan.Input,
		Encoding:  r.cfg.Cue.Encoding,
		StrictIDs: r.cfg.Cue.StrictIDs,
		Logger:    logging.WithContext(ctx, r.base),
	}
	source, err := sheetFile.Read(ctx)
	if err != nil {
		return err
	}
	report.Encoding = sheetFile.Detected
	for _, w := range sheetFile.Warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}
	if err := sheetFile.PopulateSizes(ctx, source, plan.InputDir); err != nil {
		return err
	}
	report.Source = source
	report.Offsets = source.FileOffsets()

	for _, f := range source.Files {
		if samePath(cuefile.PayloadPath(plan.InputDir, f.Name), plan.OutputBin) {
			return fmt.Errorf("%w: %s", ErrOverwritesSource, plan.OutputBin)
		}
	}

	combined, err := cue.Combined(source, plan.BinName, r.cfg.Output.FileType)
	if err != nil {
		return err
	}
	report.Combined = combined
	report.Bytes = combined.TotalBytes()

	checks := preflight.RunAll(preflight.Request{
		InputDir:  plan.InputDir,
		OutputDir: plan.OutputDir,
		NeedBytes: report.Bytes,
	})
	if err := preflight.Err(checks); err != nil {
		return err
	}
	if plan.DryRun {
		return nil
	}

	if err := os.MkdirAll(plan.OutputDir, 0o755); err != nil {
		return &cuefile.IOError{Op: "mkdir", Path: plan.OutputDir, Err: err}
	}
	lock := flock.New(filepath.Join(plan.OutputDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, plan.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.WarnContext(ctx, "failed to release output lock", logging.Error(err))
		}
	}()

	binimage.CleanPartials(plan.OutputDir, 0, logging.WithContext(ctx, r.base))

	if !r.cfg.Output.Overwrite {
		if _, err := os.Stat(plan.OutputCue); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, plan.OutputCue)
		}
	}

	result, err := binimage.Concat(ctx, source, plan.InputDir, plan.OutputBin, binimage.Options{
		BufferSize: r.cfg.CopyBufferSize(),
		Overwrite:  r.cfg.Output.Overwrite,
		Progress:   r.progress,
		Logger:     logging.WithContext(ctx, r.base),
	})
	if err != nil {
		return err
	}
	report.SHA256 = result.SHA256

	out := &cuefile.File{Path: plan.OutputCue}
	if err := out.Write(combined); err != nil {
		// no image without its sheet
		if rmErr := os.Remove(plan.OutputBin); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			r.logger.WarnContext(ctx, "failed to remove image after sheet write failure", logging.Error(rmErr))
		}
		return err
	}
	return nil
}

func (r *Runner) record(ctx context.Context, report *Report, status history.Status, started time.Time, runErr error) {
	if r.history == nil {
		return
	}
	run := history.Run{
		RunID:      report.RunID,
		CuePath:    report.Plan.Input,
		Bytes:      report.Bytes,
		Encoding:   report.Encoding,
		Status:     status,
		StartedAt:  started,
		FinishedAt: started.Add(report.Elapsed),
	}
	if report.Source != nil {
		run.Files = len(report.Source.Files)
		run.Tracks = report.Source.TrackCount()
	}
	if status == history.StatusSucceeded {
		run.OutputCue = report.Plan.OutputCue
		run.OutputBin = report.Plan.OutputBin
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if _, err := r.history.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(r.logger, "failed to record run history", "history_record_failed",
			logging.String(logging.FieldRunID, report.RunID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run missing from history"),
		)
	}
}
