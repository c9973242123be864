package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"binmerge/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := store.Record(ctx, history.Run{
		RunID:      "run-1",
		CuePath:    "/games/ff7/ff7.cue",
		OutputCue:  "/games/ff7/combined/ff7.cue",
		OutputBin:  "/games/ff7/combined/ff7.bin",
		Files:      3,
		Tracks:     3,
		Bytes:      6000 * 2352,
		Encoding:   "shift-jis",
		Status:     history.StatusSucceeded,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	run, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.RunID != "run-1" || run.Files != 3 || run.Bytes != 6000*2352 || run.Encoding != "shift-jis" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Status != history.StatusSucceeded {
		t.Fatalf("unexpected status %q", run.Status)
	}
	if !run.StartedAt.Equal(started) {
		t.Fatalf("started_at mismatch: %s", run.StartedAt)
	}
	if run.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected duration %s", run.Duration())
	}
	if run.Error != "" {
		t.Fatalf("expected empty error, got %q", run.Error)
	}
}

func TestGetUnknown(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get(context.Background(), 42); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 100 * time.Millisecond, 1100 * time.Millisecond, 120 * time.Millisecond}
	for i, offset := range offsets {
		_, err := store.Record(ctx, history.Run{
			RunID:     "run-" + string(rune('a'+i)),
			CuePath:   "x.cue",
			Status:    history.StatusFailed,
			Error:     "payload missing",
			StartedAt: base.Add(offset),
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	runs, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"run-c", "run-d", "run-b"}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(runs))
	}
	for i, run := range runs {
		if run.RunID != want[i] {
			t.Fatalf("position %d: got %s want %s", i, run.RunID, want[i])
		}
		if run.Error != "payload missing" {
			t.Fatalf("unexpected error text %q", run.Error)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(all))
	}
}

func TestRecordRequiresIdentity(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.Record(ctx, history.Run{Status: history.StatusSucceeded}); err == nil {
		t.Fatal("expected error without run id")
	}
	if _, err := store.Record(ctx, history.Run{RunID: "x"}); err == nil {
		t.Fatal("expected error without status")
	}
	if _, err := store.Record(ctx, history.Run{RunID: "dup", Status: history.StatusDryRun}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := store.Record(ctx, history.Run{RunID: "dup", Status: history.StatusDryRun}); err == nil {
		t.Fatal("expected unique run id violation")
	}
}

func TestReopenKeepsRunsAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Run{RunID: "keep", CuePath: "a.cue", Status: history.StatusSucceeded}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "keep" {
		t.Fatalf("unexpected runs after reopen: %+v", runs)
	}
}
