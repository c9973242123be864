package preflight

import (
	"errors"
	"fmt"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Request describes the paths a merge will use.
type Request struct {
	InputDir  string
	OutputDir string
	// NeedBytes is the size of the image about to be written; zero skips the
	// free space check.
	NeedBytes uint64
}

// RunAll executes the checks that apply to req.
func RunAll(req Request) []Result {
	var results []Result
	if req.InputDir != "" {
		results = append(results, CheckReadableDir("Input directory", req.InputDir))
	}
	if req.OutputDir != "" {
		results = append(results, CheckWritableTarget("Output directory", req.OutputDir))
		if req.NeedBytes > 0 {
			results = append(results, CheckFreeSpace("Free space", req.OutputDir, req.NeedBytes))
		}
	}
	return results
}

// Err joins the details of every failed result, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New("preflight failed: " + strings.Join(failed, "; "))
}
