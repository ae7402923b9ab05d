package renderer

import "github.com/ByLCY/tategaki/layout"

// Draw 把布局结果绘制到 s：外框、每个要素的逐字指令以及箭头。
// 字号或宽度不为正的指令会被跳过。
func Draw(s Surface, res *layout.Result) {
	if s == nil || res == nil {
		return
	}
	s.StrokeRect(res.Rect)
	for _, el := range res.Elements {
		if !el.Drawable() {
			continue
		}
		for _, g := range el.Glyphs {
			drawPlacement(s, g)
		}
	}
	for _, a := range res.Arrows {
		if !a.Drawable() {
			continue
		}
		s.Push()
		s.Translate(a.X, a.Y)
		s.DrawGlyph(a.Glyph, a.FontSize)
		s.Pop()
	}
}

func drawPlacement(s Surface, g layout.GlyphPlacement) {
	s.Push()
	defer s.Pop()
	s.Translate(g.X, g.Y)
	if g.Rotate {
		s.Rotate90()
	}
	if g.Mirror {
		s.Mirror()
	}
	s.DrawGlyph(g.Glyph, g.FontSize)
}
