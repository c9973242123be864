package logs

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one decoded JSON log record.
type Entry struct {
	Time      string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Component string `json:"component"`
	RunID     string `json:"run_id"`
	// Raw is the undecoded line, including attributes Entry does not name.
	Raw string `json:"-"`
}

// ForRun returns, oldest first, every record in dir's files matching pattern
// whose run_id equals runID or starts with it.
func ForRun(ctx context.Context, dir, pattern, runID string) ([]Entry, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("match log files: %w", err)
	}
	// daily file names sort chronologically
	sort.Strings(paths)

	var entries []Entry
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := scanFile(path, runID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

func scanFile(path, runID string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var entries []Entry
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, runID) {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if e.RunID == "" || !strings.HasPrefix(e.RunID, runID) {
			continue
		}
		e.Raw = line
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}
