package layout

import (
	"math"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/tategaki/glyph"
)

// ReferenceGlyph 是测量全角字宽所用的基准字。
const ReferenceGlyph = "あ"

// 上移/下移量相对字号的比例。
const verticalNudge = 0.1

// Measurer 是绘制面的测量能力：给定字号（mm）返回字符的前进宽度（mm）。
// 实现应当是无副作用的同步查询。
type Measurer interface {
	MeasureGlyphWidth(glyph string, fontSize float64) float64
}

// EmMeasurer 把所有字符都当作一个全角字宽，在没有真实字体时使用。
type EmMeasurer struct{}

func (EmMeasurer) MeasureGlyphWidth(_ string, fontSize float64) float64 { return fontSize }

// Graphemes 将文本拆成字素簇；竖排以字素簇为一格。
func Graphemes(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// ResolveFontSize 计算一个标签的字号。
// 显式字号优先；否则取槽宽与单字可用高度中较小者，字数限制启用时按限制字数计算高度。
func ResolveFontSize(label Label, slotWidth, innerHeight float64, limit FontSizeLimit) float64 {
	if label.FontSize != nil {
		return *label.FontSize
	}
	count := uniseg.GraphemeClusterCount(label.Text)
	return autoFitFontSize(count, slotWidth, innerHeight, limit)
}

func autoFitFontSize(count int, slotWidth, innerHeight float64, limit FontSizeLimit) float64 {
	byHeight := innerHeight
	if count > 0 {
		byHeight = innerHeight / float64(count)
	}
	size := math.Min(slotWidth, byHeight)
	if limit.Enabled && count > 0 && count < limit.Count {
		size = math.Min(slotWidth, innerHeight/float64(limit.Count))
	}
	return size
}

// TypesetElement 为一个标签生成逐字绘制指令。
// slot 为该标签的要素槽，inner 为内框；m 为 nil 时使用 EmMeasurer。
func TypesetElement(label Label, slot Slot, inner Box, cfg Config, m Measurer) ElementPlan {
	if m == nil {
		m = EmMeasurer{}
	}
	chars := Graphemes(label.Text)
	plan := ElementPlan{
		Index:     slot.Index,
		Text:      label.Text,
		Slot:      slot,
		Explicit:  label.FontSize != nil,
		CharCount: len(chars),
	}
	if label.FontSize != nil {
		plan.FontSize = *label.FontSize
	} else {
		plan.FontSize = autoFitFontSize(len(chars), slot.Width, inner.Height, cfg.FontSizeLimit)
	}
	if len(chars) == 0 {
		return plan
	}

	size := plan.FontSize
	spacing := size
	var startY float64
	switch cfg.VerticalAlign {
	case AlignTop:
		startY = inner.Y + spacing/2
	default:
		total := float64(len(chars)) * spacing
		startY = inner.CenterY() - total/2 + spacing/2
	}

	standard := m.MeasureGlyphWidth(ReferenceGlyph, size)
	plan.Glyphs = make([]GlyphPlacement, 0, len(chars))
	for i, ch := range chars {
		tags := glyph.ClassifyGlyph(ch)
		gp := GlyphPlacement{
			Glyph:    ch,
			CellX:    slot.CenterX,
			CellY:    startY + float64(i)*spacing,
			FontSize: size,
			Rotate:   tags.Has(glyph.Rotate),
			Mirror:   tags.Has(glyph.Reverse),
			Tags:     tags,
		}
		switch {
		case tags.Has(glyph.SmallChar) && !tags.Has(glyph.CenterJustified):
			gp.OffsetX = (standard - m.MeasureGlyphWidth(ch, size)) / 2
		case tags.Has(glyph.LeftJustified):
			gp.OffsetX = -(standard - m.MeasureGlyphWidth(ch, size)) / 2
		}
		switch {
		case tags.Has(glyph.TopJustified):
			gp.OffsetY = -size * verticalNudge
		case tags.Has(glyph.BottomJustified):
			gp.OffsetY = size * verticalNudge
		}
		gp.X = gp.CellX + gp.OffsetX
		gp.Y = gp.CellY + gp.OffsetY
		plan.Glyphs = append(plan.Glyphs, gp)
	}
	return plan
}

// PlaceArrow 将箭头放在箭头槽的中心线与内框纵向中点上，字号为显示宽度。
func PlaceArrow(slot Slot, inner Box, arrowChar string) ArrowPlan {
	return ArrowPlan{
		Index:    slot.Index,
		Glyph:    arrowChar,
		X:        slot.CenterX,
		Y:        inner.CenterY(),
		FontSize: slot.DisplayWidth,
		Slot:     slot,
	}
}
