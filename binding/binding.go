// Package binding 把外部 JSON 数据填入标签文字中的 ${路径} 占位符。
//
// 同一份图表文件可以配合不同的数据输出多张图，例如 `${steps[0]}` 或 `${dept.name}`。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/tategaki/layout"
)

var placeholder = regexp.MustCompile(`\$\{\s*([^}\s]+)\s*\}`)

// Expand 替换 text 中的占位符。找不到的路径保留原样。
func Expand(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		path := placeholder.FindStringSubmatch(m)[1]
		v, ok := Lookup(data, path)
		if !ok {
			return m
		}
		return format(v)
	})
}

// Labels 返回替换占位符后的标签副本，显式字号保持不变。
func Labels(labels []layout.Label, data any) []layout.Label {
	out := make([]layout.Label, len(labels))
	for i, l := range labels {
		out[i] = layout.Label{Text: Expand(l.Text, data), FontSize: l.FontSize}
	}
	return out
}

// Lookup 按 `a.b[1].c` 形式的路径取值。
func Lookup(data any, path string) (any, bool) {
	cur := data
	for _, key := range splitPath(path) {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// splitPath 把 `a.b[1]` 拆成 ["a", "b", "1"]。
func splitPath(path string) []string {
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// format 让 JSON 数字中的整数不带小数点。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
