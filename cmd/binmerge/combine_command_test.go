package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"binmerge/internal/history"
	"binmerge/internal/testsupport"
)

func TestCombineAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	discDir := filepath.Join(env.baseDir, "disc")
	cuePath := testsupport.WriteDisc(t, discDir, testsupport.Disc{Name: "Game", Sectors: []int{4, 2}})

	out, _, err := runCLI(t, []string{"combine", cuePath, "--time"}, env.configPath)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, filepath.Join(discDir, "combined", "Game.bin"))
	requireContains(t, out, "Elapsed:")

	info, err := os.Stat(filepath.Join(discDir, "combined", "Game.bin"))
	if err != nil {
		t.Fatalf("stat image: %v", err)
	}
	if info.Size() != 6*2352 {
		t.Fatalf("image size = %d, want %d", info.Size(), 6*2352)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, "Game.cue")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Tracks != 2 {
		t.Fatalf("unexpected runs %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Output image:")
	requireContains(t, out, "2 files, 2 tracks")

	if _, _, err := runCLI(t, []string{"history", "show", "99"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestCombineDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	discDir := filepath.Join(env.baseDir, "disc")
	cuePath := testsupport.WriteDisc(t, discDir, testsupport.Disc{Name: "Game", Sectors: []int{1, 1}})

	out, _, err := runCLI(t, []string{"combine", discDir, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("combine --dry-run: %v", err)
	}
	requireContains(t, out, "FILE \"Game.bin\" BINARY\r\n")
	requireContains(t, out, "    INDEX 01 00:02:01\r\n")
	requireContains(t, out, "nothing written")
	requireContains(t, out, cuePath)

	if _, err := os.Stat(filepath.Join(discDir, "combined")); !os.IsNotExist(err) {
		t.Fatalf("dry run created output directory: %v", err)
	}
}

func TestCombineOutputFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	discDir := filepath.Join(env.baseDir, "disc")
	cuePath := testsupport.WriteDisc(t, discDir, testsupport.Disc{Name: "Game", Sectors: []int{1, 1}})
	outDir := filepath.Join(env.baseDir, "out")

	if _, _, err := runCLI(t, []string{"combine", cuePath, "-d", outDir, "-f", "Merged.cue"}, env.configPath); err != nil {
		t.Fatalf("combine: %v", err)
	}
	for _, name := range []string{"Merged.cue", "Merged.bin"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	if _, _, err := runCLI(t, []string{"combine", cuePath, "-d", outDir, "-f", "Merged.cue"}, env.configPath); err == nil {
		t.Fatal("expected second combine to refuse existing output")
	}
	if _, _, err := runCLI(t, []string{"combine", cuePath, "-d", outDir, "-f", "Merged.cue", "--overwrite"}, env.configPath); err != nil {
		t.Fatalf("combine --overwrite: %v", err)
	}
	if _, _, err := runCLI(t, []string{"combine", cuePath, "-f", "bad/name.cue"}, env.configPath); err == nil {
		t.Fatal("expected invalid name error")
	}
}

func TestCombineJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)
	cuePath := testsupport.WriteDisc(t, filepath.Join(env.baseDir, "disc"), testsupport.Disc{Name: "Game", Sectors: []int{2, 3}})

	out, _, err := runCLI(t, []string{"combine", cuePath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("combine --json: %v", err)
	}
	var report struct {
		RunID    string   `json:"run_id"`
		Offsets  []uint64 `json:"offsets"`
		Bytes    uint64   `json:"bytes"`
		Combined struct {
			Files []struct {
				Name   string `json:"name"`
				Tracks []struct {
					ID      int `json:"id"`
					Indexes []struct {
						Offset uint32 `json:"offset"`
					} `json:"indexes"`
				} `json:"tracks"`
			} `json:"files"`
		} `json:"combined"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.RunID == "" || report.Bytes != 5*2352 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Offsets) != 2 || report.Offsets[1] != 2*2352 {
		t.Fatalf("unexpected offsets %v", report.Offsets)
	}
	files := report.Combined.Files
	if len(files) != 1 || files[0].Name != "Game.bin" || len(files[0].Tracks) != 2 {
		t.Fatalf("unexpected combined sheet %+v", report.Combined)
	}
	if tr := files[0].Tracks[1]; tr.ID != 2 || len(tr.Indexes) == 0 || tr.Indexes[len(tr.Indexes)-1].Offset < 2*2352 {
		t.Fatalf("unexpected second track %+v", tr)
	}
}

func TestCombineRequiresArgument(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"combine"}, env.configPath); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestHistoryShowLogs(t *testing.T) {
	env := setupCLITestEnv(t)
	cuePath := testsupport.WriteDisc(t, filepath.Join(env.baseDir, "disc"), testsupport.Disc{Name: "Game", Sectors: []int{1, 1}})

	if _, _, err := runCLI(t, []string{"combine", cuePath, "--log-level", "info"}, env.configPath); err != nil {
		t.Fatalf("combine: %v", err)
	}
	out, _, err := runCLI(t, []string{"history", "show", "1", "--logs"}, env.configPath)
	if err != nil {
		t.Fatalf("history show --logs: %v", err)
	}
	requireContains(t, out, "[merge] merge started")
	requireContains(t, out, "[merge] merge complete")
	requireContains(t, out, "[binimage] payload appended")
}

func TestLogsTail(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "No log entries available")

	cuePath := testsupport.WriteDisc(t, filepath.Join(env.baseDir, "disc"), testsupport.Disc{Name: "Game", Sectors: []int{1, 1}})
	if _, _, err := runCLI(t, []string{"combine", cuePath, "--log-level", "info"}, env.configPath); err != nil {
		t.Fatalf("combine: %v", err)
	}
	out, _, err = runCLI(t, []string{"logs", "-n", "50"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "merge complete")
}
