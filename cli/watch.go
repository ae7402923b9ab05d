package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/watch"
)

func newWatchCmd(root *rootOpts) *cobra.Command {
	opts := renderOpts{dpi: layout.DefaultDPI}
	var interval, delay time.Duration
	cmd := &cobra.Command{
		Use:   "watch <chart>",
		Short: "Re-render the chart whenever the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			chartPath := args[0]

			render := func() {
				if err := runRender(ctx, root, chartPath, &opts); err != nil {
					logger.Error("render failed", "err", err)
				}
			}
			render()

			logger.Info("watching", "path", chartPath)
			w := &watch.Watcher{Path: chartPath, Interval: interval, Delay: delay, OnChange: render}
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	addRenderFlags(cmd, &opts)
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "polling interval")
	cmd.Flags().DurationVar(&delay, "delay", watch.DefaultDelay, "quiet period before re-rendering")
	return cmd
}
