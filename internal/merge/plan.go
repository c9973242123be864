package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"binmerge/internal/config"
	"binmerge/internal/textutil"
)

// Options are the per-invocation overrides of a combine.
type Options struct {
	// OutputDir replaces the configured output location.
	OutputDir string
	// Name is the output sheet filename; the image shares its stem.
	Name   string
	DryRun bool
}

// Plan is a fully resolved combine job.
type Plan struct {
	Input     string `json:"input"`
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	OutputCue string `json:"output_cue"`
	OutputBin string `json:"output_bin"`
	// BinName is the FILE name written into the output sheet.
	BinName string `json:"bin_name"`
	DryRun  bool   `json:"dry_run"`
}

// Resolve turns input (a .cue file or a directory holding one) into a Plan.
// Without overrides, output goes to cfg.Output.Dir when set, otherwise to
// cfg.Output.DirName beside the input sheet.
func Resolve(input string, cfg *config.Config, opts Options) (Plan, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Plan{}, fmt.Errorf("%w: empty input", ErrNoSheet)
	}
	expanded, err := config.ExpandPath(input)
	if err != nil {
		return Plan{}, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Plan{}, fmt.Errorf("resolve %s: %w", input, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Plan{}, fmt.Errorf("stat %s: %w", input, err)
	}
	if info.IsDir() {
		if abs, err = findSheet(abs); err != nil {
			return Plan{}, err
		}
	}

	plan := Plan{Input: abs, InputDir: filepath.Dir(abs), DryRun: opts.DryRun}

	switch {
	case strings.TrimSpace(opts.OutputDir) != "":
		dir, err := config.ExpandPath(strings.TrimSpace(opts.OutputDir))
		if err != nil {
			return Plan{}, err
		}
		if plan.OutputDir, err = filepath.Abs(dir); err != nil {
			return Plan{}, fmt.Errorf("resolve %s: %w", opts.OutputDir, err)
		}
	case cfg != nil && cfg.Output.Dir != "":
		if plan.OutputDir, err = filepath.Abs(cfg.Output.Dir); err != nil {
			return Plan{}, fmt.Errorf("resolve %s: %w", cfg.Output.Dir, err)
		}
	default:
		dirName := config.Default().Output.DirName
		if cfg != nil && cfg.Output.DirName != "" {
			dirName = cfg.Output.DirName
		}
		plan.OutputDir = filepath.Join(plan.InputDir, dirName)
	}

	cueName, err := outputName(opts.Name, abs)
	if err != nil {
		return Plan{}, err
	}
	stem := strings.TrimSuffix(cueName, filepath.Ext(cueName))
	plan.BinName = stem + ".bin"
	plan.OutputCue = filepath.Join(plan.OutputDir, cueName)
	plan.OutputBin = filepath.Join(plan.OutputDir, plan.BinName)

	if samePath(plan.OutputCue, plan.Input) {
		return Plan{}, fmt.Errorf("%w: %s", ErrOverwritesSource, plan.OutputCue)
	}
	return plan, nil
}

// findSheet returns the first .cue file in dir in lexical order.
func findSheet(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	var sheets []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".cue") {
			sheets = append(sheets, e.Name())
		}
	}
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoSheet, dir)
	}
	sort.Strings(sheets)
	return filepath.Join(dir, sheets[0]), nil
}

func outputName(name, input string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		return textutil.SanitizeStem(stem, "image") + ".cue", nil
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".cue") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	stem := textutil.SanitizeFileName(strings.TrimSuffix(name, ext))
	if stem == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return stem + ext, nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
