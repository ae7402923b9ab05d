package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/tategaki/dsl"
	"github.com/ByLCY/tategaki/layout"
)

// paperSizes 为竖向（portrait）尺寸，单位 mm。
var paperSizes = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"b4":     {257, 364},
	"b5":     {182, 257},
	"letter": {215.9, 279.4},
}

// FromDocument maps a parsed chart file to a settings record.
// Unknown commands are errors; a malformed value only leaves its field unset.
func FromDocument(doc *dsl.Document) (Settings, error) {
	var s Settings
	if doc == nil || doc.Body == nil {
		return s, nil
	}
	if doc.Title != nil {
		s.Title = string(*doc.Title)
	}

	assigned := map[string]any{}
	for _, st := range doc.Body.Statements {
		switch {
		case st.Text != nil:
			s.Labels = append(s.Labels, LabelSetting{Text: string(st.Text.Value)})
		case st.Assignment != nil:
			a := st.Assignment
			if a.Key == "labels" {
				s.Labels = append(s.Labels, labelsFromValue(a.Value)...)
				continue
			}
			assigned[a.Key] = plainValue(a.Value)
		case st.Command != nil:
			if err := applyCommand(&s, st.Command); err != nil {
				return Settings{}, err
			}
		}
	}
	if len(assigned) > 0 {
		s = Merge(s, Decode(assigned))
	}
	return s, nil
}

func applyCommand(s *Settings, cmd *dsl.Command) error {
	args := cmd.Args
	switch strings.ToLower(cmd.Name) {
	case "meta":
		applyMeta(s, cmd.Block)
	case "page":
		applyPage(s, args)
	case "rect":
		if len(args) > 0 {
			s.RectWidth = lengthArg(args[0])
		}
		if len(args) > 1 {
			s.RectHeight = lengthArg(args[1])
		}
	case "padding":
		applyPadding(s, args)
	case "gap":
		if len(args) > 0 {
			s.GapWidth = lengthArg(args[0])
		}
	case "arrow":
		applyArrow(s, args)
	case "limit":
		applyLimit(s, args)
	case "align":
		if len(args) > 0 {
			if a, ok := layout.ParseVerticalAlign(args[0].Text); ok {
				v := a.String()
				s.VerticalAlign = &v
			}
		}
	case "font":
		if len(args) > 0 {
			s.Font = args[0].Text
		}
	case "label":
		if len(args) == 0 {
			return fmt.Errorf("%s: label 缺少文字", cmd.Pos)
		}
		l := LabelSetting{Text: args[0].Text}
		for i := 1; i+1 < len(args); i++ {
			if strings.EqualFold(args[i].Text, "size") {
				l.FontSize = lengthArg(args[i+1])
			}
		}
		s.Labels = append(s.Labels, l)
	default:
		return fmt.Errorf("%s: 未知的命令 %q", cmd.Pos, cmd.Name)
	}
	return nil
}

func applyMeta(s *Settings, block *dsl.Block) {
	if block == nil {
		return
	}
	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			continue
		}
		switch strings.ToLower(a.Key) {
		case "title":
			s.Title = stringValue(a.Value)
		case "author":
			s.Author = stringValue(a.Value)
		case "subject":
			s.Subject = stringValue(a.Value)
		case "keywords":
			for _, l := range labelsFromValue(a.Value) {
				s.Keywords = append(s.Keywords, l.Text)
			}
		}
	}
}

// applyPage 解析 `page A4 landscape offset 20mm 20mm` 或 `page 297mm 210mm`。
// 未写方向时按横向处理。
func applyPage(s *Settings, args []*dsl.Arg) {
	i := 0
	var w, h *float64
	if i < len(args) {
		if size, ok := paperSizes[strings.ToLower(args[i].Text)]; ok {
			w, h = ptr(size[1]), ptr(size[0])
			i++
		} else if i+1 < len(args) && args[i].IsNumber() {
			w, h = lengthArg(args[i]), lengthArg(args[i+1])
			i += 2
		}
	}
	for ; i < len(args); i++ {
		switch strings.ToLower(args[i].Text) {
		case "portrait":
			if w != nil && h != nil && *w > *h {
				w, h = h, w
			}
		case "landscape":
			if w != nil && h != nil && *w < *h {
				w, h = h, w
			}
		case "offset":
			if i+1 < len(args) {
				s.OffsetLeft = lengthArg(args[i+1])
				s.OffsetTop = s.OffsetLeft
				i++
			}
			if i+1 < len(args) && args[i+1].IsNumber() {
				s.OffsetTop = lengthArg(args[i+1])
				i++
			}
		}
	}
	if w != nil && h != nil {
		s.SheetWidth, s.SheetHeight = w, h
	}
}

// applyPadding 按 CSS 的 1–4 值简写展开。
func applyPadding(s *Settings, args []*dsl.Arg) {
	vals := make([]*float64, 0, 4)
	for _, a := range args {
		if len(vals) == 4 {
			break
		}
		vals = append(vals, lengthArg(a))
	}
	switch len(vals) {
	case 1:
		s.PaddingTop, s.PaddingRight, s.PaddingBottom, s.PaddingLeft = vals[0], vals[0], vals[0], vals[0]
	case 2:
		s.PaddingTop, s.PaddingRight, s.PaddingBottom, s.PaddingLeft = vals[0], vals[1], vals[0], vals[1]
	case 3:
		s.PaddingTop, s.PaddingRight, s.PaddingBottom, s.PaddingLeft = vals[0], vals[1], vals[2], vals[1]
	case 4:
		s.PaddingTop, s.PaddingRight, s.PaddingBottom, s.PaddingLeft = vals[0], vals[1], vals[2], vals[3]
	}
}

// applyArrow 解析 `arrow "→" ratio 0.5`，两部分均可省略。
func applyArrow(s *Settings, args []*dsl.Arg) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a.IsString():
			v := a.Text
			s.ArrowChar = &v
		case strings.EqualFold(a.Text, "ratio") && i+1 < len(args):
			if r, err := strconv.ParseFloat(args[i+1].Text, 64); err == nil {
				s.ArrowSizeRatio = &r
			}
			i++
		}
	}
}

// applyLimit 解析 `limit 5`、`limit on` 与 `limit off`。
func applyLimit(s *Settings, args []*dsl.Arg) {
	if len(args) == 0 {
		s.FontSizeLimitEnabled = ptr(true)
		return
	}
	switch v := strings.ToLower(args[0].Text); v {
	case "off", "false", "none":
		s.FontSizeLimitEnabled = ptr(false)
	case "on", "true":
		s.FontSizeLimitEnabled = ptr(true)
	default:
		if n, err := strconv.Atoi(v); err == nil {
			s.FontSizeLimitEnabled = ptr(true)
			s.FontSizeLimitCount = &n
		}
	}
}

// lengthArg 把数字参数解析为毫米；无法解析时返回 nil。
func lengthArg(l *dsl.Arg) *float64 {
	if l == nil {
		return nil
	}
	v, ok := layout.ParseRawLengthStr(l.Text)
	if !ok {
		return nil
	}
	mm := v.ToMM()
	return &mm
}

func stringValue(v *dsl.Value) string {
	if s, ok := plainValue(v).(string); ok {
		return s
	}
	return ""
}

func labelsFromValue(v *dsl.Value) []LabelSetting {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := stringValue(v); s != "" {
			return []LabelSetting{{Text: s}}
		}
		return nil
	}
	out := make([]LabelSetting, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if s := stringValue(item); s != "" {
			out = append(out, LabelSetting{Text: s})
		}
	}
	return out
}

// plainValue 把 AST 值转换为 Decode 可接受的普通值。带单位的数字换算为毫米。
func plainValue(v *dsl.Value) any {
	switch {
	case v == nil:
		return nil
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		if l, ok := layout.ParseRawLengthStr(*v.Number); ok {
			return l.ToMM()
		}
		return *v.Number
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			out = append(out, plainValue(item))
		}
		return out
	case v.Word != nil:
		return *v.Word
	}
	return nil
}
