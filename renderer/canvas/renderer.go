package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/tategaki/fonts"
	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/renderer"
)

// 外框线宽：300dpi 下的 1px。
const rectStrokeWidth = layout.MmPerIn / layout.DefaultDPI

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	fontSpec  string
	fontBytes []byte

	fontMu   sync.Mutex
	family   *canvas.FontFamily
	fontErr  error
	fontPath string
	faces    map[float64]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// Font 是字体路径或文件名，留空时自动查找常见日文字体。
	Font string
	// FontBytes 直接注入字体数据，优先于 Font。
	FontBytes []byte
}

// NewRenderer creates a canvas-based renderer using the given font spec.
func NewRenderer(font string) *Renderer { return NewRendererWithOptions(Options{Font: font}) }

// NewRendererWithOptions creates a renderer with injected font data.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		fontSpec:  opts.Font,
		fontBytes: opts.FontBytes,
		faces:     map[float64]*canvas.FontFace{},
	}
}

// FontPath 返回实际加载的字体路径；注入字体数据或尚未加载时为空。
func (r *Renderer) FontPath() string {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.fontPath
}

// Render renders the result into a vector PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	c, err := r.paint(result, false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	sheet := result.Config.Sheet
	writer := pdf.New(&buf, sheet.Width, sheet.Height, nil)
	applyMeta(writer, result.Meta)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// MeasureGlyphWidth 实现 layout.Measurer。fontSize 与返回值均为毫米；
// 字体不可用时按一个全角字宽返回。
func (r *Renderer) MeasureGlyphWidth(glyph string, fontSize float64) float64 {
	if fontSize <= 0 {
		return 0
	}
	face, err := r.face(fontSize)
	if err != nil {
		return fontSize
	}
	return face.TextWidth(glyph)
}

// paint 在纸面大小的画布上绘制布局结果。background 为 true 时先铺白底（位图输出需要）。
func (r *Renderer) paint(result *layout.Result, background bool) (*canvas.Canvas, error) {
	if _, err := r.ensureFontFamily(); err != nil {
		return nil, err
	}
	sheet := result.Config.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return nil, fmt.Errorf("纸面尺寸无效: %gx%g", sheet.Width, sheet.Height)
	}
	c := canvas.New(sheet.Width, sheet.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	if background {
		ctx.SetFillColor(canvas.White)
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.DrawPath(0, 0, canvas.Rectangle(sheet.Width, sheet.Height))
	}

	s := &contextSurface{r: r, ctx: ctx}
	renderer.Draw(s, result)
	if s.err != nil {
		return nil, s.err
	}
	return c, nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// face 返回指定字号（mm）的字体面，按字号缓存。
func (r *Renderer) face(sizeMM float64) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.faces[sizeMM]; ok {
		return f, nil
	}
	// 创建字体面需要 pt，这里做一次 mm→pt。
	f := family.Face(toPt(sizeMM), canvas.Black, canvas.FontRegular, canvas.FontNormal)
	r.faces[sizeMM] = f
	return f, nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil || r.fontErr != nil {
		return r.family, r.fontErr
	}

	data := r.fontBytes
	if len(data) == 0 {
		blob, path, err := fonts.Load(r.fontSpec)
		if err != nil {
			r.fontErr = err
			return nil, err
		}
		data = blob
		r.fontPath = path
	}
	family := canvas.NewFontFamily("tategaki")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		r.fontErr = fmt.Errorf("加载字体失败: %w", err)
		return nil, r.fontErr
	}
	r.family = family
	return family, nil
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
