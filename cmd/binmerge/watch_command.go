package main

import (
	"context"

	"github.com/spf13/cobra"

	"binmerge/internal/history"
	"binmerge/internal/merge"
	"binmerge/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var scan bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Merge every sheet dropped into a directory",
		Long: "Watches <dir> for new or changed .cue files. Once a sheet has been quiet\n" +
			"for watch.settle_seconds it is merged exactly as `binmerge combine` would.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(verbose)
			if err != nil {
				return err
			}
			return ctx.withHistory(func(store *history.Store) error {
				runner := merge.NewRunner(cfg, logger, merge.WithHistory(store))
				handler := func(runCtx context.Context, path string) error {
					plan, err := merge.Resolve(path, cfg, merge.Options{})
					if err != nil {
						return err
					}
					_, err = runner.Run(runCtx, plan)
					return err
				}
				w := watch.New(args[0], cfg.SettleDelay(), handler, logger)
				w.InitialScan = scan
				return w.Run(cmd.Context())
			})
		},
	}
	cmd.Flags().BoolVar(&scan, "scan", false, "Also merge sheets already present at startup")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
