// Package settings holds the persisted, partially filled settings record and
// resolves it against the built-in defaults into a layout configuration.
//
// Every field is optional. A missing or invalid value falls back to its
// default when the record is resolved; nothing here is ever fatal.
package settings

import (
	"math"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/ByLCY/tategaki/layout"
)

// Settings mirrors layout.Config plus the labels, font and document metadata.
// Lengths are millimetres.
type Settings struct {
	Title    string   `json:"title,omitempty" toml:"title,omitempty" mapstructure:"title"`
	Author   string   `json:"author,omitempty" toml:"author,omitempty" mapstructure:"author"`
	Subject  string   `json:"subject,omitempty" toml:"subject,omitempty" mapstructure:"subject"`
	Keywords []string `json:"keywords,omitempty" toml:"keywords,omitempty" mapstructure:"keywords"`
	Font     string   `json:"font,omitempty" toml:"font,omitempty" mapstructure:"font"`

	SheetWidth  *float64 `json:"sheetWidth,omitempty" toml:"sheetWidth,omitempty" mapstructure:"sheetWidth"`
	SheetHeight *float64 `json:"sheetHeight,omitempty" toml:"sheetHeight,omitempty" mapstructure:"sheetHeight"`
	OffsetLeft  *float64 `json:"offsetLeft,omitempty" toml:"offsetLeft,omitempty" mapstructure:"offsetLeft"`
	OffsetTop   *float64 `json:"offsetTop,omitempty" toml:"offsetTop,omitempty" mapstructure:"offsetTop"`

	RectWidth     *float64 `json:"rectWidth,omitempty" toml:"rectWidth,omitempty" mapstructure:"rectWidth"`
	RectHeight    *float64 `json:"rectHeight,omitempty" toml:"rectHeight,omitempty" mapstructure:"rectHeight"`
	PaddingTop    *float64 `json:"paddingTop,omitempty" toml:"paddingTop,omitempty" mapstructure:"paddingTop"`
	PaddingRight  *float64 `json:"paddingRight,omitempty" toml:"paddingRight,omitempty" mapstructure:"paddingRight"`
	PaddingBottom *float64 `json:"paddingBottom,omitempty" toml:"paddingBottom,omitempty" mapstructure:"paddingBottom"`
	PaddingLeft   *float64 `json:"paddingLeft,omitempty" toml:"paddingLeft,omitempty" mapstructure:"paddingLeft"`

	GapWidth       *float64 `json:"gapWidth,omitempty" toml:"gapWidth,omitempty" mapstructure:"gapWidth"`
	ArrowSizeRatio *float64 `json:"arrowSizeRatio,omitempty" toml:"arrowSizeRatio,omitempty" mapstructure:"arrowSizeRatio"`
	ArrowChar      *string  `json:"arrowChar,omitempty" toml:"arrowChar,omitempty" mapstructure:"arrowChar"`

	FontSizeLimitEnabled *bool   `json:"fontSizeLimitEnabled,omitempty" toml:"fontSizeLimitEnabled,omitempty" mapstructure:"fontSizeLimitEnabled"`
	FontSizeLimitCount   *int    `json:"fontSizeLimitCount,omitempty" toml:"fontSizeLimitCount,omitempty" mapstructure:"fontSizeLimitCount"`
	VerticalAlign        *string `json:"verticalAlign,omitempty" toml:"verticalAlign,omitempty" mapstructure:"verticalAlign"`

	Labels []LabelSetting `json:"labels,omitempty" toml:"labels,omitempty" mapstructure:"labels"`
}

// LabelSetting is one persisted label.
type LabelSetting struct {
	Text     string   `json:"text" toml:"text" mapstructure:"text"`
	FontSize *float64 `json:"fontSize,omitempty" toml:"fontSize,omitempty" mapstructure:"fontSize"`
}

// Decode builds a Settings record from loosely typed data such as a decoded
// JSON or TOML document. Numbers may arrive as strings ("12.5"); fields that
// cannot be converted stay unset.
func Decode(src map[string]any) Settings {
	var s Settings
	if len(src) == 0 {
		return s
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       labelFromString,
		Result:           &s,
	})
	if err != nil {
		return s
	}
	// Decoding keeps going past bad fields; the ones that failed are left nil.
	_ = dec.Decode(src)
	return s
}

// labelFromString accepts a bare string wherever a label object is expected.
func labelFromString(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(LabelSetting{}) {
		return LabelSetting{Text: reflect.ValueOf(data).String()}, nil
	}
	return data, nil
}

// Merge returns base with every field that is set in over replacing it.
// Labels are replaced as a whole when over carries any.
func Merge(base, over Settings) Settings {
	out := base
	setString(&out.Title, over.Title)
	setString(&out.Author, over.Author)
	setString(&out.Subject, over.Subject)
	setString(&out.Font, over.Font)
	if len(over.Keywords) > 0 {
		out.Keywords = append([]string(nil), over.Keywords...)
	}
	for _, f := range []struct{ dst, src **float64 }{
		{&out.SheetWidth, &over.SheetWidth},
		{&out.SheetHeight, &over.SheetHeight},
		{&out.OffsetLeft, &over.OffsetLeft},
		{&out.OffsetTop, &over.OffsetTop},
		{&out.RectWidth, &over.RectWidth},
		{&out.RectHeight, &over.RectHeight},
		{&out.PaddingTop, &over.PaddingTop},
		{&out.PaddingRight, &over.PaddingRight},
		{&out.PaddingBottom, &over.PaddingBottom},
		{&out.PaddingLeft, &over.PaddingLeft},
		{&out.GapWidth, &over.GapWidth},
		{&out.ArrowSizeRatio, &over.ArrowSizeRatio},
	} {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}
	if over.ArrowChar != nil {
		out.ArrowChar = over.ArrowChar
	}
	if over.FontSizeLimitEnabled != nil {
		out.FontSizeLimitEnabled = over.FontSizeLimitEnabled
	}
	if over.FontSizeLimitCount != nil {
		out.FontSizeLimitCount = over.FontSizeLimitCount
	}
	if over.VerticalAlign != nil {
		out.VerticalAlign = over.VerticalAlign
	}
	if len(over.Labels) > 0 {
		out.Labels = append([]LabelSetting(nil), over.Labels...)
	}
	return out
}

// Resolve fills every unset or invalid field from the built-in defaults.
// Without labels the default sample labels are returned.
func (s Settings) Resolve() (layout.Config, []layout.Label) {
	cfg := layout.DefaultConfig()
	applyFloat(&cfg.Sheet.Width, s.SheetWidth)
	applyFloat(&cfg.Sheet.Height, s.SheetHeight)
	applyFloat(&cfg.Sheet.OffsetLeft, s.OffsetLeft)
	applyFloat(&cfg.Sheet.OffsetTop, s.OffsetTop)
	applyFloat(&cfg.RectWidth, s.RectWidth)
	applyFloat(&cfg.RectHeight, s.RectHeight)
	applyFloat(&cfg.Padding.Top, s.PaddingTop)
	applyFloat(&cfg.Padding.Right, s.PaddingRight)
	applyFloat(&cfg.Padding.Bottom, s.PaddingBottom)
	applyFloat(&cfg.Padding.Left, s.PaddingLeft)
	applyFloat(&cfg.GapWidth, s.GapWidth)
	applyFloat(&cfg.ArrowSizeRatio, s.ArrowSizeRatio)
	if cfg.ArrowSizeRatio < 0 {
		cfg.ArrowSizeRatio = layout.DefaultArrowSizeRatio
	}
	if s.ArrowChar != nil && *s.ArrowChar != "" {
		cfg.ArrowChar = *s.ArrowChar
	}
	if s.FontSizeLimitEnabled != nil {
		cfg.FontSizeLimit.Enabled = *s.FontSizeLimitEnabled
	}
	if s.FontSizeLimitCount != nil && *s.FontSizeLimitCount > 0 {
		cfg.FontSizeLimit.Count = *s.FontSizeLimitCount
	}
	if s.VerticalAlign != nil {
		if a, ok := layout.ParseVerticalAlign(*s.VerticalAlign); ok {
			cfg.VerticalAlign = a
		}
	}

	if len(s.Labels) == 0 {
		return cfg, layout.DefaultLabels()
	}
	labels := make([]layout.Label, 0, len(s.Labels))
	for _, l := range s.Labels {
		label := layout.Label{Text: l.Text}
		if l.FontSize != nil && finite(*l.FontSize) && *l.FontSize > 0 {
			size := *l.FontSize
			label.FontSize = &size
		}
		labels = append(labels, label)
	}
	return cfg, labels
}

// Meta returns the document metadata carried by the record.
func (s Settings) Meta() layout.DocumentMeta {
	return layout.DocumentMeta{
		Title:    s.Title,
		Author:   s.Author,
		Subject:  s.Subject,
		Creator:  "tategaki",
		Keywords: append([]string(nil), s.Keywords...),
	}
}

// IsZero reports whether no field is set.
func (s Settings) IsZero() bool {
	return s.Title == "" && s.Author == "" && s.Subject == "" && s.Font == "" &&
		len(s.Keywords) == 0 && len(s.Labels) == 0 &&
		s.SheetWidth == nil && s.SheetHeight == nil && s.OffsetLeft == nil && s.OffsetTop == nil &&
		s.RectWidth == nil && s.RectHeight == nil &&
		s.PaddingTop == nil && s.PaddingRight == nil && s.PaddingBottom == nil && s.PaddingLeft == nil &&
		s.GapWidth == nil && s.ArrowSizeRatio == nil && s.ArrowChar == nil &&
		s.FontSizeLimitEnabled == nil && s.FontSizeLimitCount == nil && s.VerticalAlign == nil
}

// FromConfig captures a complete configuration and labels as a record.
func FromConfig(cfg layout.Config, labels []layout.Label) Settings {
	align := cfg.VerticalAlign.String()
	s := Settings{
		SheetWidth:           ptr(cfg.Sheet.Width),
		SheetHeight:          ptr(cfg.Sheet.Height),
		OffsetLeft:           ptr(cfg.Sheet.OffsetLeft),
		OffsetTop:            ptr(cfg.Sheet.OffsetTop),
		RectWidth:            ptr(cfg.RectWidth),
		RectHeight:           ptr(cfg.RectHeight),
		PaddingTop:           ptr(cfg.Padding.Top),
		PaddingRight:         ptr(cfg.Padding.Right),
		PaddingBottom:        ptr(cfg.Padding.Bottom),
		PaddingLeft:          ptr(cfg.Padding.Left),
		GapWidth:             ptr(cfg.GapWidth),
		ArrowSizeRatio:       ptr(cfg.ArrowSizeRatio),
		ArrowChar:            ptr(cfg.ArrowChar),
		FontSizeLimitEnabled: ptr(cfg.FontSizeLimit.Enabled),
		FontSizeLimitCount:   ptr(cfg.FontSizeLimit.Count),
		VerticalAlign:        &align,
	}
	for _, l := range labels {
		ls := LabelSetting{Text: l.Text}
		if l.FontSize != nil {
			ls.FontSize = ptr(*l.FontSize)
		}
		s.Labels = append(s.Labels, ls)
	}
	return s
}

func applyFloat(dst *float64, v *float64) {
	if v != nil && finite(*v) {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func ptr[T any](v T) *T { return &v }
