package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"binmerge/internal/binimage"
	"binmerge/internal/history"
	"binmerge/internal/merge"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	var opts merge.Options
	var showTime bool
	var verbose bool
	var jsonOut bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "combine <input.cue|dir>",
		Short: "Merge a multi-file sheet into one BIN and CUE",
		Long: "Reads the sheet (or the first .cue in a directory), concatenates every\n" +
			"FILE payload in order and writes a single-FILE sheet whose INDEX times are\n" +
			"shifted by the size of the files before them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if overwrite {
				copyCfg := *cfg
				copyCfg.Output.Overwrite = true
				cfg = &copyCfg
			}
			logger, err := ctx.logger(verbose)
			if err != nil {
				return err
			}
			plan, err := merge.Resolve(args[0], cfg, opts)
			if err != nil {
				return err
			}

			return ctx.withHistory(func(store *history.Store) error {
				runnerOpts := []merge.RunnerOption{merge.WithHistory(store)}
				stderr := cmd.ErrOrStderr()
				if !jsonOut && shouldColorize(stderr) {
					runnerOpts = append(runnerOpts, merge.WithProgress(progressPrinter(stderr)))
				}
				report, err := merge.NewRunner(cfg, logger, runnerOpts...).Run(cmd.Context(), plan)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, report)
				}
				return printCombineReport(cmd.OutOrStdout(), report, showTime)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "d", "", "Directory for the merged files (default <input dir>/combined)")
	cmd.Flags().StringVarP(&opts.Name, "name", "f", "", "Output sheet filename, e.g. game.cue; the BIN shares its stem")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the merged sheet without writing anything")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing merged BIN and CUE")
	cmd.Flags().BoolVar(&showTime, "time", false, "Report elapsed time")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run report as JSON")
	return cmd
}

func printCombineReport(out io.Writer, report *merge.Report, showTime bool) error {
	colorize := shouldColorize(out)
	plan := report.Plan

	if plan.DryRun {
		text, err := report.Combined.Text()
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(text))
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, renderStatusLine("Input", statusInfo, plan.Input, colorize))
	for _, w := range report.Warnings {
		fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, w, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Tracks", statusInfo, strconv.Itoa(report.Combined.TrackCount()), colorize))
	fmt.Fprintln(out, renderStatusLine("Size", statusInfo, humanize.IBytes(report.Bytes), colorize))
	if plan.DryRun {
		fmt.Fprintln(out, renderStatusLine("Dry run", statusWarn, "nothing written to "+plan.OutputDir, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Sheet", statusOK, plan.OutputCue, colorize))
		fmt.Fprintln(out, renderStatusLine("Image", statusOK, plan.OutputBin, colorize))
	}
	if showTime {
		fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, report.Elapsed.Round(time.Millisecond).String(), colorize))
	}
	return nil
}

func progressPrinter(w io.Writer) func(binimage.Progress) {
	last := -1
	return func(p binimage.Progress) {
		pct := int(p.Percent())
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(w, "\r\x1b[K  copying %3d%%  %s / %s  %s", pct,
			humanize.IBytes(p.TotalCopied), humanize.IBytes(p.TotalBytes), p.File)
		if p.TotalCopied >= p.TotalBytes {
			fmt.Fprintln(w)
		}
	}
}
