package preview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/viewport"
)

func newSizedModel(t *testing.T, res *layout.Result) Model {
	t.Helper()
	m, _ := New("test", res).Update(tea.WindowSizeMsg{Width: 100, Height: 42})
	return m.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFitsOnFirstResize(t *testing.T) {
	res := layout.Build(layout.DefaultLabels(), layout.DefaultConfig(), layout.BuildOptions{})
	m := newSizedModel(t, res)
	want := viewport.FitScale(100, res.Rect.Width)
	if got := m.Viewport().Scale; got != want {
		t.Fatalf("初始缩放期望 %g，实际 %g", want, got)
	}
	out := m.View()
	if !strings.Contains(out, "あ") || !strings.Contains(out, "う") {
		t.Fatalf("预览缺少标签:\n%s", out)
	}
	if strings.Contains(out, WarningText) {
		t.Fatalf("默认配置不应出现警告")
	}
}

func TestModelKeysZoomAndQuit(t *testing.T) {
	res := layout.Build(layout.DefaultLabels(), layout.DefaultConfig(), layout.BuildOptions{})
	m := newSizedModel(t, res)
	before := m.Viewport().Scale

	next, _ := m.Update(keyMsg("+"))
	m = next.(Model)
	if m.Viewport().Scale <= before {
		t.Fatalf("+ 应放大")
	}
	next, _ = m.Update(keyMsg("r"))
	m = next.(Model)
	if m.Viewport().Scale != before {
		t.Fatalf("r 应恢复初始缩放")
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("q 应返回退出命令")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q 应退出")
	}
}

func TestModelMouseDragPans(t *testing.T) {
	res := layout.Build(layout.DefaultLabels(), layout.DefaultConfig(), layout.BuildOptions{})
	m := newSizedModel(t, res)
	for _, msg := range []tea.MouseMsg{
		{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		{X: 14, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		{X: 14, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	} {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	vp := m.Viewport()
	if vp.TranslateX != 4 || vp.TranslateY != 2 {
		t.Fatalf("拖动应平移 (4,2)，实际 (%g,%g)", vp.TranslateX, vp.TranslateY)
	}
	if vp.State() != viewport.Idle {
		t.Fatalf("松开后应回到 idle")
	}
}

func TestModelShowsWarningAndErrors(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.GapWidth = 30
	res := layout.Build(layout.DefaultLabels(), cfg, layout.BuildOptions{})
	m := newSizedModel(t, layout.Build(layout.DefaultLabels(), layout.DefaultConfig(), layout.BuildOptions{}))

	next, _ := m.Update(ResultMsg{Result: res})
	m = next.(Model)
	if !strings.Contains(m.View(), WarningText) {
		t.Fatalf("余白超出时应显示警告")
	}

	next, _ = m.Update(ResultMsg{Err: errors.New("parse failed")})
	m = next.(Model)
	out := m.View()
	if !strings.Contains(out, "parse failed") || !strings.Contains(out, WarningText) {
		t.Fatalf("出错时应保留上一次结果并显示错误:\n%s", out)
	}
}
