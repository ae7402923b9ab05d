package layout

import (
	"math"
	"testing"

	"github.com/ByLCY/tategaki/glyph"
)

// halfMeasurer 让小书假名与句读点只有半个字宽，其余字符为全角。
type halfMeasurer struct {
	calls map[string]int
}

func (h *halfMeasurer) MeasureGlyphWidth(g string, fontSize float64) float64 {
	if h.calls != nil {
		h.calls[g]++
	}
	tags := glyph.ClassifyGlyph(g)
	if tags.Has(glyph.SmallChar) || tags.Has(glyph.LeftJustified) {
		return fontSize / 2
	}
	return fontSize
}

func ptr(v float64) *float64 { return &v }

func innerBox(h float64) Box { return Box{X: 0, Y: 0, Width: 500, Height: h} }

// TestFontSizeScenarioB 两个字、槽宽 100、内框高 300 时字号为 100。
func TestFontSizeScenarioB(t *testing.T) {
	label := Label{Text: "ああ"}
	if got := ResolveFontSize(label, 100, 300, FontSizeLimit{}); got != 100 {
		t.Fatalf("字号期望 100，实际 %g", got)
	}
}

// TestFontSizeScenarioC 启用字数限制 5 后高度方向按 300/5 计算。
func TestFontSizeScenarioC(t *testing.T) {
	label := Label{Text: "ああ"}
	if got := ResolveFontSize(label, 100, 300, FontSizeLimit{Enabled: true, Count: 5}); got != 60 {
		t.Fatalf("字号期望 60，实际 %g", got)
	}
	// 字数不少于限制时不受影响
	long := Label{Text: "あいうえおか"}
	if got := ResolveFontSize(long, 100, 300, FontSizeLimit{Enabled: true, Count: 5}); got != 50 {
		t.Fatalf("6 个字应按 300/6 = 50，实际 %g", got)
	}
}

// TestExplicitFontSizeWins 显式字号优先于自动计算与字数限制。
func TestExplicitFontSizeWins(t *testing.T) {
	label := Label{Text: "ああ", FontSize: ptr(12.5)}
	limits := []FontSizeLimit{{}, {Enabled: true, Count: 5}, {Enabled: true, Count: 1}}
	for _, limit := range limits {
		if got := ResolveFontSize(label, 100, 300, limit); got != 12.5 {
			t.Fatalf("limit=%+v 时显式字号应生效，实际 %g", limit, got)
		}
	}
	plan := TypesetElement(label, Slot{Width: 100}, innerBox(300), Config{FontSizeLimit: FontSizeLimit{Enabled: true, Count: 5}}, nil)
	if plan.FontSize != 12.5 || !plan.Explicit {
		t.Fatalf("TypesetElement 未使用显式字号: %+v", plan)
	}
}

// TestFontSizeMonotonic 槽宽固定时字号随字数单调不增。
func TestFontSizeMonotonic(t *testing.T) {
	text := ""
	prev := math.Inf(1)
	for i := 0; i < 20; i++ {
		got := ResolveFontSize(Label{Text: text}, 40, 300, FontSizeLimit{})
		if got > prev {
			t.Fatalf("字数 %d 时字号 %g 大于前一个 %g", i, got, prev)
		}
		prev = got
		text += "あ"
	}
}

func TestGraphemeCounting(t *testing.T) {
	// か + 合成浊点 计为一个字
	label := Label{Text: "\u304b\u3099あ"}
	plan := TypesetElement(label, Slot{Width: 1000}, innerBox(300), Config{}, nil)
	if plan.CharCount != 2 || len(plan.Glyphs) != 2 {
		t.Fatalf("应按字素簇计数为 2，实际 %d", plan.CharCount)
	}
	if plan.FontSize != 150 {
		t.Fatalf("字号期望 150，实际 %g", plan.FontSize)
	}
}

func TestCenterAlignPositions(t *testing.T) {
	slot := Slot{Kind: SlotElement, CenterX: 50, Width: 100}
	inner := Box{X: 0, Y: 10, Width: 100, Height: 300}
	plan := TypesetElement(Label{Text: "ああ"}, slot, inner, Config{VerticalAlign: AlignCenter}, nil)
	// 总高 200，中心 160：首字格中心 160-100+50 = 110
	want := []float64{110, 210}
	for i, g := range plan.Glyphs {
		if g.CellY != want[i] || g.CellX != 50 {
			t.Fatalf("第 %d 个字位置错误: %+v", i, g)
		}
	}
}

func TestTopAlignPositions(t *testing.T) {
	slot := Slot{Kind: SlotElement, CenterX: 20, Width: 10}
	inner := Box{X: 0, Y: 30, Width: 100, Height: 300}
	plan := TypesetElement(Label{Text: "あいう"}, slot, inner, Config{VerticalAlign: AlignTop}, nil)
	for i, g := range plan.Glyphs {
		want := 30 + 5 + float64(i)*10
		if g.CellY != want {
			t.Fatalf("第 %d 个字纵向位置期望 %g，实际 %g", i, want, g.CellY)
		}
	}
}

func TestGlyphOffsets(t *testing.T) {
	m := &halfMeasurer{calls: map[string]int{}}
	slot := Slot{Kind: SlotElement, CenterX: 0, Width: 10}
	plan := TypesetElement(Label{Text: "しゃ」（、「ー"}, slot, Box{Height: 1000}, Config{}, m)
	if plan.FontSize != 10 {
		t.Fatalf("字号期望 10，实际 %g", plan.FontSize)
	}
	tests := []struct {
		glyph            string
		dx, dy           float64
		rotate, mirrored bool
	}{
		{"し", 0, 0, false, false},
		{"ゃ", 2.5, 0, false, false},  // 小字靠右 (10-5)/2
		{"」", -2.5, -1, true, false}, // 闭括号靠左并上移
		{"（", 0, 0, true, false},     // 居中括号无偏移
		{"、", 2.5, -1, false, false}, // 句读点靠右上
		{"「", 0, 1, true, false},     // 开括号下移
		{"ー", 0, 0, true, true},      // 长音旋转后翻转
	}
	if len(plan.Glyphs) != len(tests) {
		t.Fatalf("字数错误: %d", len(plan.Glyphs))
	}
	for i, tt := range tests {
		g := plan.Glyphs[i]
		if g.Glyph != tt.glyph {
			t.Fatalf("第 %d 个字应为 %s，实际 %s", i, tt.glyph, g.Glyph)
		}
		if math.Abs(g.OffsetX-tt.dx) > eps || math.Abs(g.OffsetY-tt.dy) > eps {
			t.Fatalf("%s 偏移错误: got=(%g,%g) want=(%g,%g)", tt.glyph, g.OffsetX, g.OffsetY, tt.dx, tt.dy)
		}
		if g.X != g.CellX+g.OffsetX || g.Y != g.CellY+g.OffsetY {
			t.Fatalf("%s 绘制原点应为字格中心加偏移: %+v", tt.glyph, g)
		}
		if g.Rotate != tt.rotate || g.Mirror != tt.mirrored {
			t.Fatalf("%s 旋转/翻转错误: rotate=%v mirror=%v", tt.glyph, g.Rotate, g.Mirror)
		}
		if g.Mirror && !g.Rotate {
			t.Fatalf("%s 翻转但未旋转", tt.glyph)
		}
	}
	// 基准字每个要素只测量一次
	if m.calls[ReferenceGlyph] != 1 {
		t.Fatalf("基准字应只测量一次，实际 %d 次", m.calls[ReferenceGlyph])
	}
	if m.calls["し"] != 0 {
		t.Fatalf("普通字符不需要测量")
	}
}

func TestEmptyLabel(t *testing.T) {
	plan := TypesetElement(Label{}, Slot{Width: 40}, innerBox(300), Config{}, nil)
	if plan.CharCount != 0 || len(plan.Glyphs) != 0 {
		t.Fatalf("空标签不应产生字符: %+v", plan)
	}
	if plan.FontSize != 40 {
		t.Fatalf("空标签字号按内框高度与槽宽计算，期望 40，实际 %g", plan.FontSize)
	}
}

func TestNegativeSlotIsNotDrawable(t *testing.T) {
	plan := TypesetElement(Label{Text: "あ"}, Slot{Width: -3}, innerBox(300), Config{}, nil)
	if plan.Drawable() {
		t.Fatalf("负槽宽的要素不应绘制: %+v", plan)
	}
}

func TestPlaceArrow(t *testing.T) {
	slot := Slot{Kind: SlotArrow, Index: 1, CenterX: 42, Width: 4, DisplayWidth: 9}
	a := PlaceArrow(slot, Box{Y: 10, Height: 40}, "⇒")
	if a.X != 42 || a.Y != 30 || a.FontSize != 9 || a.Glyph != "⇒" || !a.Drawable() {
		t.Fatalf("箭头位置错误: %+v", a)
	}
	if (ArrowPlan{FontSize: 0, Glyph: "→"}).Drawable() {
		t.Fatalf("字号为 0 的箭头不应绘制")
	}
}
