package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/preview"
)

const defaultOutput = "chart.pdf"

// errMarginWarning makes `check` exit non-zero when the margins do not fit.
var errMarginWarning = errors.New(preview.WarningText)

// renderOpts holds the flags of the render and watch commands.
type renderOpts struct {
	output string  // output file; the extension picks PDF or PNG
	raster bool    // PDF made of one raster image, as the browser tool produced
	dpi    float64 // raster resolution
	debug  string  // optional layout JSON path
}

func newRenderCmd(root *rootOpts) *cobra.Command {
	opts := renderOpts{dpi: layout.DefaultDPI}
	cmd := &cobra.Command{
		Use:   "render [chart]",
		Short: "Render the chart to PDF or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), root, chartArg(args), &opts)
		},
	}
	addRenderFlags(cmd, &opts)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.pdf or .png; default: chart name with .pdf)")
	cmd.Flags().BoolVar(&opts.raster, "raster", false, "embed a raster image in the PDF instead of vector text")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", opts.dpi, "raster resolution for PNG and --raster")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "write the computed layout as JSON to this path")
}

func runRender(ctx context.Context, root *rootOpts, chartPath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := loadSettings(ctx, root, chartPath)
	if err != nil {
		return err
	}
	engine := newEngine(root, s)
	res, err := build(root, s, engine)
	if err != nil {
		return err
	}
	if res.Warning {
		logger.Warn(preview.WarningText, "rectWidth", res.Config.RectWidth, "gapWidth", res.Config.GapWidth)
	}

	if opts.debug != "" {
		if err := os.MkdirAll(filepath.Dir(opts.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(res, opts.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	output := outputPath(chartPath, opts.output)
	var data []byte
	switch {
	case strings.EqualFold(filepath.Ext(output), ".png"):
		data, err = engine.RenderPNG(res, opts.dpi)
	case opts.raster:
		data, err = engine.RenderRasterPDF(res, opts.dpi)
	default:
		data, err = engine.Render(res)
	}
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	prog.done("rendered", "output", output, "font", engine.FontPath())
	return nil
}

// outputPath defaults to the chart name with a .pdf extension.
func outputPath(chartPath, output string) string {
	if output != "" {
		return output
	}
	if chartPath == "" {
		return defaultOutput
	}
	return strings.TrimSuffix(chartPath, filepath.Ext(chartPath)) + ".pdf"
}

func newPlanCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [chart]",
		Short: "Print the computed layout as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd.Context(), root, chartArg(args))
			if err != nil {
				return err
			}
			res, err := build(root, s, newEngine(root, s))
			if err != nil {
				return err
			}
			return layout.EncodeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newCheckCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check [chart]",
		Short: "Report slot widths, font sizes and the margin warning",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd.Context(), root, chartArg(args))
			if err != nil {
				return err
			}
			res, err := build(root, s, newEngine(root, s))
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), res)
			if res.Warning {
				return errMarginWarning
			}
			return nil
		},
	}
}

func writeReport(w io.Writer, res *layout.Result) {
	p := res.Partition
	fmt.Fprintf(w, "rect    %g x %g mm, inner %g x %g mm\n", res.Rect.Width, res.Rect.Height, res.Inner.Width, res.Inner.Height)
	fmt.Fprintf(w, "slots   element %.2f mm, arrow %.2f mm (drawn %.2f mm)\n", p.ElementWidth, p.NominalArrowWidth, p.DisplayArrowWidth)
	for _, el := range res.Elements {
		source := "auto"
		if el.Explicit {
			source = "explicit"
		}
		fmt.Fprintf(w, "%2d  %-12s %2d chars  %.2f mm (%s)\n", el.Index+1, el.Text, el.CharCount, el.FontSize, source)
	}
	if res.Warning {
		fmt.Fprintln(w, preview.WarningText)
	}
}
