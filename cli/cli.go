// Package cli implements the tategaki command-line interface.
//
// Every command reads the chart either from a chart file argument or from the
// persisted settings record (--settings), with the file's values merged over
// the stored ones. Missing values fall back to the built-in defaults.
//
// Commands:
//   - render: write the chart as PDF (vector, or raster with --raster) or PNG
//   - plan: print the computed layout as JSON
//   - check: report font sizes and the margin warning
//   - preview: interactive terminal preview
//   - watch: re-render whenever the chart file changes
//   - serve: HTTP API
//   - settings: show or import the persisted record
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/tategaki/binding"
	"github.com/ByLCY/tategaki/dsl"
	"github.com/ByLCY/tategaki/layout"
	canvasrenderer "github.com/ByLCY/tategaki/renderer/canvas"
	"github.com/ByLCY/tategaki/settings"
)

// rootOpts are the persistent flags shared by all commands.
type rootOpts struct {
	verbose  bool
	store    string // settings repository URI
	font     string // overrides the font from the chart
	dataJSON string // data for ${...} placeholders in labels
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{store: os.Getenv("TATEGAKI_SETTINGS")}

	root := &cobra.Command{
		Use:          "tategaki",
		Short:        "Typeset vertical-text flow charts",
		Long:         `tategaki lays out short Japanese labels as vertical columns joined by arrows inside a fixed rectangle and renders the result as PDF or PNG.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.store, "settings", opts.store, "settings store: file path, file://, redis:// or memory: (env TATEGAKI_SETTINGS)")
	root.PersistentFlags().StringVar(&opts.font, "font", "", "font file path or name (default: first installed Japanese font)")
	root.PersistentFlags().StringVar(&opts.dataJSON, "data", "", "JSON data bound to ${...} placeholders in labels")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	return root
}

// loadSettings merges the chart file (if any) over the stored record.
func loadSettings(ctx context.Context, opts *rootOpts, chartPath string) (settings.Settings, error) {
	logger := loggerFromContext(ctx)
	repo, err := settings.Open(opts.store)
	if err != nil {
		return settings.Settings{}, err
	}
	stored, err := repo.Load(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("加载设置失败: %w", err)
	}
	if chartPath == "" {
		return stored, nil
	}
	fromFile, err := readChart(chartPath)
	if err != nil {
		return settings.Settings{}, err
	}
	logger.Debug("chart loaded", "path", chartPath, "labels", len(fromFile.Labels))
	return settings.Merge(stored, fromFile), nil
}

// readChart parses a chart file into a settings record.
func readChart(path string) (settings.Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("无法打开图表文件 %s: %w", path, err)
	}
	defer f.Close()
	doc, err := dsl.Parse(path, f)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("解析图表文件失败: %w", err)
	}
	s, err := settings.FromDocument(doc)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("图表文件 %s: %w", path, err)
	}
	return s, nil
}

// newEngine returns the canvas renderer for the effective font.
func newEngine(opts *rootOpts, s settings.Settings) *canvasrenderer.Renderer {
	font := s.Font
	if opts.font != "" {
		font = opts.font
	}
	return canvasrenderer.NewRenderer(font)
}

// build resolves the record and computes the layout.
func build(opts *rootOpts, s settings.Settings, m layout.Measurer) (*layout.Result, error) {
	var data any
	if opts.dataJSON != "" {
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}
	cfg, labels := s.Resolve()
	labels = binding.Labels(labels, data)
	return layout.Build(labels, cfg, layout.BuildOptions{Measurer: m, Meta: s.Meta()}), nil
}

func chartArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
