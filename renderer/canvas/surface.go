package canvasrenderer

import (
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/renderer"
)

// contextSurface 把 canvas.Context 适配为 renderer.Surface。
type contextSurface struct {
	r   *Renderer
	ctx *canvas.Context
	err error
}

var _ renderer.Surface = (*contextSurface)(nil)

func (s *contextSurface) MeasureGlyphWidth(glyph string, fontSize float64) float64 {
	return s.r.MeasureGlyphWidth(glyph, fontSize)
}

func (s *contextSurface) StrokeRect(b layout.Box) {
	s.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	s.ctx.SetStrokeColor(canvas.Black)
	s.ctx.SetStrokeWidth(rectStrokeWidth)
	s.ctx.DrawPath(b.X, b.Y, canvas.Rectangle(b.Width, b.Height))
}

func (s *contextSurface) Push() { s.ctx.Push() }
func (s *contextSurface) Pop()  { s.ctx.Pop() }

func (s *contextSurface) Translate(x, y float64) { s.ctx.Translate(x, y) }

// y 轴向下时，视图的逆时针 90° 在纸面上表现为顺时针。
func (s *contextSurface) Rotate90() { s.ctx.Rotate(90) }

func (s *contextSurface) Mirror() { s.ctx.Scale(1, -1) }

func (s *contextSurface) DrawGlyph(glyph string, fontSize float64) {
	if s.err != nil || fontSize <= 0 {
		return
	}
	face, err := s.r.face(fontSize)
	if err != nil {
		s.err = err
		return
	}
	// 基线下移半个 (ascent - descent)，使字形在原点处上下居中。
	m := face.Metrics()
	line := canvas.NewTextLine(face, glyph, canvas.Center)
	s.ctx.DrawText(0, (m.Ascent-m.Descent)/2, line)
}
