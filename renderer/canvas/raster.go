package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/tategaki/layout"
)

// Rasterize 以给定 DPI 把整张纸面绘制为位图（白底）。
func (r *Renderer) Rasterize(result *layout.Result, dpi float64) (image.Image, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if dpi <= 0 {
		dpi = layout.DefaultDPI
	}
	c, err := r.paint(result, true)
	if err != nil {
		return nil, err
	}
	return rasterizer.Draw(c, canvas.DPI(dpi), canvas.DefaultColorSpace), nil
}

// RenderPNG 输出预览用的 PNG。
func (r *Renderer) RenderPNG(result *layout.Result, dpi float64) ([]byte, error) {
	img, err := r.Rasterize(result, dpi)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderRasterPDF 先按 dpi 栅格化，再把位图铺满一页 PDF。
// 输出与屏幕预览逐像素一致，代价是文字不可选取。
func (r *Renderer) RenderRasterPDF(result *layout.Result, dpi float64) ([]byte, error) {
	img, err := r.Rasterize(result, dpi)
	if err != nil {
		return nil, err
	}
	sheet := result.Config.Sheet
	page := canvas.New(sheet.Width, sheet.Height)
	ctx := canvas.NewContext(page)
	ctx.SetCoordSystem(canvas.CartesianIV)
	dpmm := float64(img.Bounds().Dx()) / sheet.Width
	if dpmm <= 0 {
		dpmm = layout.MmToPx(dpi)
	}
	ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))

	var buf bytes.Buffer
	writer := pdf.New(&buf, sheet.Width, sheet.Height, nil)
	applyMeta(writer, result.Meta)
	page.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
