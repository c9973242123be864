package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"binmerge/internal/config"
	"binmerge/internal/history"
	"binmerge/internal/logs"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past merge runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Started", "Status", "Tracks", "Size", "Duration", "Sheet"},
					historyRows(runs),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var withLogs bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("Run", runStatusKind(run.Status), fmt.Sprintf("#%d %s (%s)", run.ID, run.Status, run.RunID), colorize))
				fmt.Fprintln(out, renderStatusLine("Sheet", statusInfo, run.CuePath, colorize))
				if run.OutputCue != "" {
					fmt.Fprintln(out, renderStatusLine("Output sheet", statusInfo, run.OutputCue, colorize))
					fmt.Fprintln(out, renderStatusLine("Output image", statusInfo, run.OutputBin, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Layout", statusInfo, fmt.Sprintf("%d files, %d tracks, %s", run.Files, run.Tracks, humanize.IBytes(run.Bytes)), colorize))
				if run.Encoding != "" {
					fmt.Fprintln(out, renderStatusLine("Encoding", statusInfo, run.Encoding, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.DateTime), colorize))
				fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, run.Duration().Round(time.Millisecond).String(), colorize))
				if run.Error != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, run.Error, colorize))
				}
				if !withLogs {
					return nil
				}
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				entries, err := logs.ForRun(cmd.Context(), cfg.Paths.LogDir, config.LogFilePattern, run.RunID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				if len(entries) == 0 {
					fmt.Fprintln(out, "No log records retained for this run")
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s %-5s [%s] %s\n", e.Time, strings.ToUpper(e.Level), e.Component, e.Message)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withLogs, "logs", false, "Also print the run's log records")
	return cmd
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			humanize.Time(run.StartedAt),
			string(run.Status),
			strconv.Itoa(run.Tracks),
			humanize.IBytes(run.Bytes),
			run.Duration().Round(time.Millisecond).String(),
			filepath.Base(run.CuePath),
		})
	}
	return rows
}

func runStatusKind(status history.Status) statusKind {
	switch status {
	case history.StatusSucceeded:
		return statusOK
	case history.StatusFailed:
		return statusError
	case history.StatusDryRun:
		return statusWarn
	default:
		return statusInfo
	}
}
