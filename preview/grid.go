package preview

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/renderer"
)

// verticalForms 把需要旋转的字符换成终端里可直接显示的竖排字形。
// 终端无法旋转单个字符，旋转/翻转由这张表近似。
var verticalForms = map[string]string{
	"ー": "｜",
	"-": "｜",
	"―": "｜",
	"～": "≀",
	"〜": "≀",
	"…": "︙",
	"「": "﹁",
	"」": "﹂",
	"『": "﹃",
	"』": "﹄",
	"（": "︵",
	"）": "︶",
	"(": "︵",
	")": "︶",
	"【": "︻",
	"】": "︼",
}

// Projection maps layout millimetres to grid cells.
// A cell is taken to be twice as tall as it is wide.
type Projection struct {
	Cols, Rows       int
	CenterX, CenterY float64 // content point shown at the grid centre before translate
	Scale            float64 // columns per millimetre
	TranslateX       float64 // in columns
	TranslateY       float64 // in rows
}

// Cell returns the column and row for a layout point.
func (p Projection) Cell(x, y float64) (int, int) {
	col := float64(p.Cols)/2 + p.TranslateX + (x-p.CenterX)*p.Scale
	row := float64(p.Rows)/2 + p.TranslateY + (y-p.CenterY)*p.Scale/2
	return int(math.Floor(col)), int(math.Floor(row))
}

type cell struct {
	text        string
	placeholder bool // 宽字符的后半格
}

type frame struct {
	x, y    float64
	rotated bool
}

// Grid is a renderer.Surface that paints onto terminal cells.
type Grid struct {
	proj  Projection
	cells []cell
	cur   frame
	stack []frame
}

var _ renderer.Surface = (*Grid)(nil)

// NewGrid returns an empty grid of the projection's size.
func NewGrid(p Projection) *Grid {
	if p.Cols < 0 {
		p.Cols = 0
	}
	if p.Rows < 0 {
		p.Rows = 0
	}
	return &Grid{proj: p, cells: make([]cell, p.Cols*p.Rows)}
}

// MeasureGlyphWidth treats a two-column glyph as one em.
func (g *Grid) MeasureGlyphWidth(glyph string, fontSize float64) float64 {
	return float64(runewidth.StringWidth(glyph)) / 2 * fontSize
}

func (g *Grid) StrokeRect(b layout.Box) {
	c0, r0 := g.proj.Cell(b.X, b.Y)
	c1, r1 := g.proj.Cell(b.X+b.Width, b.Y+b.Height)
	for c := c0 + 1; c < c1; c++ {
		g.put(c, r0, "─")
		g.put(c, r1, "─")
	}
	for r := r0 + 1; r < r1; r++ {
		g.put(c0, r, "│")
		g.put(c1, r, "│")
	}
	g.put(c0, r0, "┌")
	g.put(c1, r0, "┐")
	g.put(c0, r1, "└")
	g.put(c1, r1, "┘")
}

func (g *Grid) Push() { g.stack = append(g.stack, g.cur) }

func (g *Grid) Pop() {
	if n := len(g.stack); n > 0 {
		g.cur = g.stack[n-1]
		g.stack = g.stack[:n-1]
	}
}

func (g *Grid) Translate(x, y float64) {
	g.cur.x += x
	g.cur.y += y
}

func (g *Grid) Rotate90() { g.cur.rotated = true }

// Mirror 已包含在竖排字形中。
func (g *Grid) Mirror() {}

// DrawGlyph writes the glyph so that its cells are centred on the current origin.
func (g *Grid) DrawGlyph(glyph string, fontSize float64) {
	if g.cur.rotated {
		if v, ok := verticalForms[glyph]; ok {
			glyph = v
		}
	}
	col, row := g.proj.Cell(g.cur.x, g.cur.y)
	w := runewidth.StringWidth(glyph)
	if w > 1 {
		col -= w / 2
	}
	g.put(col, row, glyph)
}

// String returns the grid as newline separated rows.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.proj.Rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.proj.Cols; c++ {
			cl := g.cells[r*g.proj.Cols+c]
			switch {
			case cl.placeholder:
			case cl.text == "":
				b.WriteByte(' ')
			default:
				b.WriteString(cl.text)
			}
		}
	}
	return b.String()
}

// At returns the text stored at a cell, "" for empty or out of range.
func (g *Grid) At(col, row int) string {
	if !g.inside(col, row) {
		return ""
	}
	return g.cells[row*g.proj.Cols+col].text
}

func (g *Grid) put(col, row int, text string) {
	w := runewidth.StringWidth(text)
	if w == 0 {
		w = 1
	}
	if !g.inside(col, row) || !g.inside(col+w-1, row) {
		return
	}
	g.clear(col, row)
	g.cells[row*g.proj.Cols+col] = cell{text: text}
	for i := 1; i < w; i++ {
		g.clear(col+i, row)
		g.cells[row*g.proj.Cols+col+i] = cell{placeholder: true}
	}
}

// clear 覆盖宽字符的任一半时，另一半也要清空。
func (g *Grid) clear(col, row int) {
	i := row*g.proj.Cols + col
	if g.cells[i].placeholder && col > 0 {
		g.cells[i-1] = cell{}
	}
	if !g.cells[i].placeholder && g.cells[i].text != "" && runewidth.StringWidth(g.cells[i].text) > 1 && col+1 < g.proj.Cols {
		g.cells[i+1] = cell{}
	}
	g.cells[i] = cell{}
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.proj.Cols && row < g.proj.Rows
}
