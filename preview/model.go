// Package preview shows a layout result in the terminal.
//
// The plan is painted onto a cell grid through the same renderer.Draw walk
// the PDF output uses. Mouse drag pans, the wheel zooms around the pointer.
package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/renderer"
	"github.com/ByLCY/tategaki/viewport"
)

// WarningText is shown while the margins exceed the rectangle width.
const WarningText = "四角形の幅を超えています！！！"

const (
	zoomStep  = 1.25
	wheelStep = 1.1
	panStep   = 2.0
	// 标题行与状态行。
	chromeRows = 2
)

var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorDim    = lipgloss.Color("240")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// ResultMsg replaces the previewed result, eg after the chart file changed.
type ResultMsg struct {
	Result *layout.Result
	Err    error
}

// Model is the bubbletea model for the preview.
type Model struct {
	Title  string
	result *layout.Result
	err    error
	vp     *viewport.Viewport
	width  int
	height int
	sized  bool
}

// New creates a preview for result.
func New(title string, result *layout.Result) Model {
	return Model{Title: title, result: result, vp: viewport.New(0, 0)}
}

// Viewport exposes the current zoom and pan.
func (m Model) Viewport() viewport.Viewport { return *m.vp }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.sized {
			m.vp.Reset(float64(m.width), m.contentWidth())
			m.sized = true
		}
	case ResultMsg:
		m.err = msg.Err
		if msg.Result != nil {
			m.result = msg.Result
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.vp.ZoomAt(zoomStep, viewport.Point{})
		case "-", "_":
			m.vp.ZoomAt(1/zoomStep, viewport.Point{})
		case "left", "h":
			m.vp.PanBy(-panStep, 0)
		case "right", "l":
			m.vp.PanBy(panStep, 0)
		case "up", "k":
			m.vp.PanBy(0, -panStep/2)
		case "down", "j":
			m.vp.PanBy(0, panStep/2)
		case "0", "r":
			m.vp.Reset(float64(m.width), m.contentWidth())
		}
	case tea.MouseMsg:
		p := m.screenPoint(msg.X, msg.Y)
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.vp.ZoomAt(wheelStep, p)
		case msg.Button == tea.MouseButtonWheelDown:
			m.vp.ZoomAt(1/wheelStep, p)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.vp.Start(p)
		case msg.Action == tea.MouseActionMotion:
			m.vp.Move(p)
		case msg.Action == tea.MouseActionRelease:
			m.vp.End(0)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.Title))
	b.WriteString("\n")
	if m.result != nil {
		b.WriteString(m.Render(m.width, m.gridRows()))
	}
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

// Render paints the current result onto a grid of the given size.
func (m Model) Render(cols, rows int) string {
	if m.result == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	rect := m.result.Rect
	g := NewGrid(Projection{
		Cols:       cols,
		Rows:       rows,
		CenterX:    rect.CenterX(),
		CenterY:    rect.CenterY(),
		Scale:      m.vp.Scale,
		TranslateX: m.vp.TranslateX,
		TranslateY: m.vp.TranslateY,
	})
	renderer.Draw(g, m.result)
	return g.String()
}

func (m Model) status() string {
	parts := []string{styleDim.Render(fmt.Sprintf("×%.2f  %s  +/- zoom  drag/hjkl pan  r reset  q quit", m.vp.Scale, m.vp.State()))}
	if m.result != nil && m.result.Warning {
		parts = append(parts, styleWarning.Render(WarningText))
	}
	if m.err != nil {
		parts = append(parts, styleWarning.Render(m.err.Error()))
	}
	return strings.Join(parts, "  ")
}

// screenPoint 把终端坐标换算为相对网格中心的位置。
func (m Model) screenPoint(x, y int) viewport.Point {
	return viewport.Point{
		X: float64(x) - float64(m.width)/2,
		Y: float64(y-1) - float64(m.gridRows())/2,
	}
}

func (m Model) gridRows() int {
	if rows := m.height - chromeRows; rows > 0 {
		return rows
	}
	return 0
}

func (m Model) contentWidth() float64 {
	if m.result == nil {
		return 0
	}
	return m.result.Rect.Width
}
