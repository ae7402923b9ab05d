package layout

import (
	"fmt"
	"strings"
)

// 内置默认值。
const (
	DefaultRectWidth      = 50.0
	DefaultRectHeight     = 50.0
	DefaultGapWidth       = 2.0
	DefaultArrowSizeRatio = 0.5
	DefaultArrowChar      = "→"
	DefaultLimitCount     = 5

	// A4 横向，外框左上角距纸边 20mm。
	DefaultSheetWidth  = 297.0
	DefaultSheetHeight = 210.0
	DefaultSheetOffset = 20.0
)

// DefaultLabelTexts 是没有任何设置时显示的示例标签。
var DefaultLabelTexts = []string{"あああ", "いいい", "ううううう"}

// VerticalAlign 控制每列文字在内框高度中的位置。
type VerticalAlign int

const (
	AlignCenter VerticalAlign = iota
	AlignTop
)

func (a VerticalAlign) String() string {
	switch a {
	case AlignTop:
		return "top"
	default:
		return "center"
	}
}

func (a VerticalAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *VerticalAlign) UnmarshalText(b []byte) error {
	v, ok := ParseVerticalAlign(string(b))
	if !ok {
		return fmt.Errorf("未知的纵向对齐方式：%s", b)
	}
	*a = v
	return nil
}

// ParseVerticalAlign 解析 "top" / "center"（大小写不敏感）。
func ParseVerticalAlign(s string) (VerticalAlign, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return AlignTop, true
	case "center", "middle":
		return AlignCenter, true
	default:
		return AlignCenter, false
	}
}

// Padding 以毫米为单位。
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// FontSizeLimit 启用时，字数少于 Count 的标签按 Count 个字计算高度方向的字号。
type FontSizeLimit struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// Sheet 描述外框所在的纸面以及外框左上角的位置。
type Sheet struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	OffsetLeft float64 `json:"offsetLeft"`
	OffsetTop  float64 `json:"offsetTop"`
}

// Config 是一次计算的全部参数，调用期间视为不可变。
type Config struct {
	Sheet          Sheet         `json:"sheet"`
	RectWidth      float64       `json:"rectWidth"`
	RectHeight     float64       `json:"rectHeight"`
	Padding        Padding       `json:"padding"`
	GapWidth       float64       `json:"gapWidth"`
	ArrowSizeRatio float64       `json:"arrowSizeRatio"`
	ArrowChar      string        `json:"arrowChar"`
	FontSizeLimit  FontSizeLimit `json:"fontSizeLimit"`
	VerticalAlign  VerticalAlign `json:"verticalAlign"`
}

// Label 是一个要素：文字与可选的显式字号（mm）。
type Label struct {
	Text     string   `json:"text"`
	FontSize *float64 `json:"fontSize,omitempty"`
}

// DefaultConfig 返回全部字段取内置默认值的配置。
func DefaultConfig() Config {
	return Config{
		Sheet: Sheet{
			Width:      DefaultSheetWidth,
			Height:     DefaultSheetHeight,
			OffsetLeft: DefaultSheetOffset,
			OffsetTop:  DefaultSheetOffset,
		},
		RectWidth:      DefaultRectWidth,
		RectHeight:     DefaultRectHeight,
		GapWidth:       DefaultGapWidth,
		ArrowSizeRatio: DefaultArrowSizeRatio,
		ArrowChar:      DefaultArrowChar,
		FontSizeLimit:  FontSizeLimit{Enabled: false, Count: DefaultLimitCount},
		VerticalAlign:  AlignCenter,
	}
}

// DefaultLabels 返回示例标签的副本。
func DefaultLabels() []Label {
	labels := make([]Label, len(DefaultLabelTexts))
	for i, text := range DefaultLabelTexts {
		labels[i] = Label{Text: text}
	}
	return labels
}

// Rect 返回外框在纸面上的位置。
func (c Config) Rect() Box {
	return Box{X: c.Sheet.OffsetLeft, Y: c.Sheet.OffsetTop, Width: c.RectWidth, Height: c.RectHeight}
}

// Inner 返回去掉 padding 后的内框；宽高可能为负，不做截断。
func (c Config) Inner() Box {
	r := c.Rect()
	return Box{
		X:      r.X + c.Padding.Left,
		Y:      r.Y + c.Padding.Top,
		Width:  r.Width - c.Padding.Left - c.Padding.Right,
		Height: r.Height - c.Padding.Top - c.Padding.Bottom,
	}
}
