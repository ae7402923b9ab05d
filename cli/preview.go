package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ByLCY/tategaki/preview"
	"github.com/ByLCY/tategaki/watch"
)

func newPreviewCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [chart]",
		Short: "Show the chart in the terminal; reloads when the chart file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), root, chartArg(args))
		},
	}
}

func runPreview(ctx context.Context, root *rootOpts, chartPath string) error {
	s, err := loadSettings(ctx, root, chartPath)
	if err != nil {
		return err
	}
	engine := newEngine(root, s)
	res, err := build(root, s, engine)
	if err != nil {
		return err
	}

	title := s.Title
	if title == "" && chartPath != "" {
		title = filepath.Base(chartPath)
	}
	p := tea.NewProgram(preview.New(title, res),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if chartPath != "" {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		w := &watch.Watcher{
			Path: chartPath,
			OnChange: func() {
				s, err := loadSettings(wctx, root, chartPath)
				if err != nil {
					p.Send(preview.ResultMsg{Err: err})
					return
				}
				res, err := build(root, s, engine)
				p.Send(preview.ResultMsg{Result: res, Err: err})
			},
		}
		go w.Run(wctx)
	}

	_, err = p.Run()
	return err
}
