package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ByLCY/tategaki/layout"
)

// recordingSurface 记录所有绘制调用，便于断言顺序。
type recordingSurface struct {
	ops   []string
	depth int
}

func (r *recordingSurface) MeasureGlyphWidth(_ string, size float64) float64 { return size }
func (r *recordingSurface) StrokeRect(b layout.Box) {
	r.ops = append(r.ops, fmt.Sprintf("rect %g %g %g %g", b.X, b.Y, b.Width, b.Height))
}
func (r *recordingSurface) Push() { r.depth++; r.ops = append(r.ops, "push") }
func (r *recordingSurface) Pop()  { r.depth--; r.ops = append(r.ops, "pop") }
func (r *recordingSurface) Translate(x, y float64) {
	r.ops = append(r.ops, fmt.Sprintf("translate %g %g", x, y))
}
func (r *recordingSurface) Rotate90() { r.ops = append(r.ops, "rotate") }
func (r *recordingSurface) Mirror()   { r.ops = append(r.ops, "mirror") }
func (r *recordingSurface) DrawGlyph(g string, size float64) {
	r.ops = append(r.ops, fmt.Sprintf("draw %s %g", g, size))
}

func TestDrawOrderAndTransforms(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Sheet.OffsetLeft, cfg.Sheet.OffsetTop = 0, 0
	cfg.RectWidth, cfg.RectHeight = 30, 30
	cfg.GapWidth = 0
	cfg.ArrowSizeRatio = 1
	res := layout.Build([]layout.Label{{Text: "ー"}, {Text: "あ"}}, cfg, layout.BuildOptions{})

	s := &recordingSurface{}
	Draw(s, res)
	got := strings.Join(s.ops, "\n")
	// 内框 30，n=2：unit=10，要素宽 10
	want := strings.Join([]string{
		"rect 0 0 30 30",
		"push", "translate 5 15", "rotate", "mirror", "draw ー 10", "pop",
		"push", "translate 25 15", "draw あ 10", "pop",
		"push", "translate 15 15", "draw → 10", "pop",
	}, "\n")
	if got != want {
		t.Fatalf("绘制顺序不符:\n%s\nwant:\n%s", got, want)
	}
	if s.depth != 0 {
		t.Fatalf("Push/Pop 不平衡: %d", s.depth)
	}
}

func TestDrawSkipsDegenerate(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.RectWidth = 1
	cfg.GapWidth = 10
	res := layout.Build(layout.DefaultLabels(), cfg, layout.BuildOptions{})
	s := &recordingSurface{}
	Draw(s, res)
	for _, op := range s.ops {
		if strings.HasPrefix(op, "draw") {
			t.Fatalf("退化几何不应产生绘制: %v", s.ops)
		}
	}
	Draw(nil, res)
	Draw(s, nil)
}
