package layout

import (
	"fmt"

	"github.com/ByLCY/tategaki/glyph"
)

// 该文件定义布局结果，供排版计算、渲染与调试 JSON 共用。所有长度均为毫米。

// Result 是一次布局计算的完整输出：槽位几何、逐字绘制指令与余白警告。
type Result struct {
	Config    Config        `json:"config"`
	Rect      Box           `json:"rect"`  // 外框在纸面上的位置
	Inner     Box           `json:"inner"` // 去掉 padding 后的工作区域
	Partition Partition     `json:"partition"`
	Slots     []Slot        `json:"slots"`
	Elements  []ElementPlan `json:"elements"`
	Arrows    []ArrowPlan   `json:"arrows"`
	Warning   bool          `json:"warning"`
	Meta      DocumentMeta  `json:"meta"`
}

// Box 是一个轴对齐矩形，X/Y 为左上角。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Box) CenterX() float64 { return b.X + b.Width/2 }
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// SlotKind 区分要素槽与箭头槽。
type SlotKind int

const (
	SlotElement SlotKind = iota
	SlotArrow
)

func (k SlotKind) String() string {
	switch k {
	case SlotElement:
		return "element"
	case SlotArrow:
		return "arrow"
	default:
		return fmt.Sprintf("SlotKind(%d)", int(k))
	}
}

func (k SlotKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Slot 是内框中的一段水平区域。箭头槽的 Width 为计算用的名义宽度，
// DisplayWidth 为实际绘制箭头时使用的字号（可能大于 Width）。
type Slot struct {
	Kind         SlotKind `json:"kind"`
	Index        int      `json:"index"` // 要素序号或箭头序号
	Left         float64  `json:"left"`
	CenterX      float64  `json:"centerX"`
	Width        float64  `json:"width"`
	DisplayWidth float64  `json:"displayWidth,omitempty"`
}

// ElementPlan 是一个标签的竖排结果。
type ElementPlan struct {
	Index     int              `json:"index"`
	Text      string           `json:"text"`
	Slot      Slot             `json:"slot"`
	FontSize  float64          `json:"fontSize"`
	Explicit  bool             `json:"explicit"` // 字号来自标签的显式设置
	CharCount int              `json:"charCount"`
	Glyphs    []GlyphPlacement `json:"glyphs"`
}

// Drawable 报告该要素是否应当绘制；字号或槽宽不为正时调用方应跳过。
func (p ElementPlan) Drawable() bool {
	return p.FontSize > 0 && p.Slot.Width > 0
}

// GlyphPlacement 是单个字符的绘制指令：先平移到 (X, Y)，按需旋转、翻转，
// 再以 FontSize 居中绘制 Glyph。
type GlyphPlacement struct {
	Glyph    string    `json:"glyph"`
	CellX    float64   `json:"cellX"` // 字格中心
	CellY    float64   `json:"cellY"`
	OffsetX  float64   `json:"offsetX"`
	OffsetY  float64   `json:"offsetY"`
	X        float64   `json:"x"` // 字格中心加偏移
	Y        float64   `json:"y"`
	FontSize float64   `json:"fontSize"`
	Rotate   bool      `json:"rotate"`
	Mirror   bool      `json:"mirror"`
	Tags     glyph.Tag `json:"tags"`
}

// ArrowPlan 描述一个箭头字符的绘制位置。
type ArrowPlan struct {
	Index    int     `json:"index"`
	Glyph    string  `json:"glyph"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize"`
	Slot     Slot    `json:"slot"`
}

// Drawable 报告箭头是否应当绘制。
func (a ArrowPlan) Drawable() bool {
	return a.FontSize > 0 && a.Glyph != ""
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
