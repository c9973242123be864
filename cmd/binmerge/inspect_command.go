package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"binmerge/internal/cue"
	"binmerge/internal/cuefile"
	"binmerge/internal/volume"
)

type inspectView struct {
	Path        string     `json:"path"`
	Encoding    string     `json:"encoding"`
	Warnings    []string   `json:"warnings,omitempty"`
	Sheet       *cue.Sheet `json:"sheet"`
	Offsets     []uint64   `json:"offsets,omitempty"`
	TotalBytes  uint64     `json:"total_bytes,omitempty"`
	VolumeLabel string     `json:"volume_label,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var sizes bool

	cmd := &cobra.Command{
		Use:   "inspect <input.cue>",
		Short: "Show the FILE/TRACK/INDEX tree of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			f := &cuefile.File{
				Path:      args[0],
				Encoding:  cfg.Cue.Encoding,
				StrictIDs: cfg.Cue.StrictIDs,
				Logger:    logger,
			}
			sheet, err := f.Read(cmd.Context())
			if err != nil {
				return err
			}

			view := inspectView{Path: f.Path, Encoding: f.Detected, Sheet: sheet}
			for _, w := range f.Warnings {
				view.Warnings = append(view.Warnings, w.Error())
			}
			if sizes {
				if err := f.PopulateSizes(cmd.Context(), sheet, ""); err != nil {
					return err
				}
				view.Offsets = sheet.FileOffsets()
				view.TotalBytes = sheet.TotalBytes()
			}
			if label, ok := dataTrackLabel(f, sheet); ok {
				view.VolumeLabel = label
			}

			if jsonOut {
				return writeJSON(cmd, view)
			}
			return printInspect(cmd.OutOrStdout(), view, sizes)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the sheet as JSON")
	cmd.Flags().BoolVar(&sizes, "sizes", false, "Read payload sizes and show image offsets")
	return cmd
}

// dataTrackLabel reads the ISO9660 label when the first track is a cooked
// MODE1/2048 data track.
func dataTrackLabel(f *cuefile.File, sheet *cue.Sheet) (string, bool) {
	if sheet.Empty() || len(sheet.Files[0].Tracks) == 0 {
		return "", false
	}
	if sheet.Files[0].Tracks[0].Type != cue.TrackMode1_2048 {
		return "", false
	}
	label, err := volume.Label(cuefile.PayloadPath(f.Dir(), sheet.Files[0].Name))
	if err != nil {
		return "", false
	}
	return label, label != ""
}

func printInspect(out io.Writer, view inspectView, sizes bool) error {
	headers := []string{"File", "Track", "Type", "Index", "Time", "Offset"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight}
	if sizes {
		headers = append(headers, "Image offset")
		aligns = append(aligns, alignRight)
	}

	var rows [][]string
	for fi := range view.Sheet.Files {
		f := &view.Sheet.Files[fi]
		fileCell := f.Name
		if sizes {
			fileCell = fmt.Sprintf("%s (%s)", f.Name, humanize.IBytes(uint64(f.Bytes)))
		}
		if len(f.Tracks) == 0 {
			rows = append(rows, []string{fileCell})
			continue
		}
		for ti := range f.Tracks {
			t := &f.Tracks[ti]
			trackCells := []string{fmt.Sprintf("%02d", t.ID), t.Type.String()}
			if len(t.Indexes) == 0 {
				rows = append(rows, append([]string{fileCell}, trackCells...))
				fileCell = ""
				continue
			}
			for _, idx := range t.Indexes {
				ts, err := cue.BytesToTimestamp(idx.Offset, t.Type)
				if err != nil {
					ts = "invalid"
				}
				row := []string{fileCell, trackCells[0], trackCells[1], fmt.Sprintf("%02d", idx.ID), ts, strconv.FormatUint(uint64(idx.Offset), 10)}
				if sizes {
					row = append(row, strconv.FormatUint(view.Offsets[fi]+uint64(idx.Offset), 10))
				}
				rows = append(rows, row)
				fileCell = ""
				trackCells = []string{"", ""}
			}
		}
	}

	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "Files: %d  Tracks: %d  Encoding: %s\n", len(view.Sheet.Files), view.Sheet.TrackCount(), view.Encoding)
	if sizes {
		fmt.Fprintf(out, "Total size: %s (%d bytes)\n", humanize.IBytes(view.TotalBytes), view.TotalBytes)
	}
	if view.VolumeLabel != "" {
		fmt.Fprintf(out, "Volume label: %s\n", view.VolumeLabel)
	}
	colorize := shouldColorize(out)
	for _, w := range view.Warnings {
		fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, w, colorize))
	}
	return nil
}
