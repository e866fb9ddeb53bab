package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/render"
)

// Virtual pixel size of one terminal cell.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

// CellMeasurer advances every rune by exactly one cell.
type CellMeasurer struct{}

// Advance implements [render.Measurer].
func (CellMeasurer) Advance(s string, _ float64) float64 {
	return float64(len([]rune(s))) * CellWidth
}

// SurfaceSize converts a terminal size in cells to virtual pixels.
func SurfaceSize(cols, rows int) (width, height float64) {
	return float64(cols) * CellWidth, float64(rows) * CellHeight
}

type cell struct {
	r     rune
	alpha float64
	set   bool
}

// Grid is a [render.Canvas] backed by terminal cells. A glyph lands in the
// cell containing its baseline origin; when two glyphs share a cell the
// more opaque one wins.
type Grid struct {
	cols, rows int
	cells      []cell
}

// NewGrid returns an empty grid. Negative sizes are treated as zero.
func NewGrid(cols, rows int) *Grid {
	cols, rows = max(cols, 0), max(rows, 0)
	return &Grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// DrawGlyph implements [render.Canvas]. Glyphs outside the grid are dropped.
func (g *Grid) DrawGlyph(gl render.Glyph) {
	col := int(math.Floor(gl.X / CellWidth))
	row := int(math.Ceil(gl.Y/CellHeight)) - 1
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return
	}
	c := &g.cells[row*g.cols+col]
	if c.set && c.alpha >= gl.Alpha {
		return
	}
	*c = cell{r: gl.Rune, alpha: gl.Alpha, set: true}
}

// At returns the rune and alpha in a cell; ok is false for empty cells.
func (g *Grid) At(col, row int) (r rune, alpha float64, ok bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, 0, false
	}
	c := g.cells[row*g.cols+col]
	return c.r, c.alpha, c.set
}

// PlainText returns the grid without color, one line per row.
func (g *Grid) PlainText() string {
	var b strings.Builder
	for row := range g.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range g.cols {
			c := g.cells[row*g.cols+col]
			if c.set {
				b.WriteRune(c.r)
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// Render returns the grid with each cell's ink blended onto the paper.
func (g *Grid) Render(p Palette) string {
	paper := lipgloss.Color(p.Paper)
	blank := lipgloss.NewStyle().Background(paper)

	var b strings.Builder
	for row := range g.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range g.cols {
			c := g.cells[row*g.cols+col]
			if !c.set {
				b.WriteString(blank.Render(" "))
				continue
			}
			ink := lipgloss.Color(p.Blend(c.alpha).Hex())
			b.WriteString(lipgloss.NewStyle().Foreground(ink).Background(paper).Render(string(c.r)))
		}
	}
	return b.String()
}

// ANSIOption configures terminal rendering via [RenderANSI].
type ANSIOption func(*ansiRenderer)

type ansiRenderer struct {
	palette Palette
	plain   bool
}

// WithANSIPalette sets the ink and paper colors.
func WithANSIPalette(p Palette) ANSIOption { return func(r *ansiRenderer) { r.palette = p } }

// WithPlainText drops all color codes.
func WithPlainText() ANSIOption { return func(r *ansiRenderer) { r.plain = true } }

// RenderANSI draws the frame onto a grid sized to cover its surface. Frames
// meant for the terminal should be measured with [CellMeasurer].
func RenderANSI(f render.Frame, opts ...ANSIOption) string {
	r := ansiRenderer{palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	cols := int(math.Ceil(f.Width / CellWidth))
	rows := int(math.Ceil(f.Height / CellHeight))
	grid := NewGrid(cols, rows)
	f.Draw(grid)
	if r.plain {
		return grid.PlainText()
	}
	return grid.Render(r.palette)
}

// TerminalLayout rescales base so one line of text spans two cell rows.
// Type size and line height keep their ratio; the fit ratio is unchanged.
func TerminalLayout(base layout.Options) layout.Options {
	if base.BaseLineHeight <= 0 {
		return base
	}
	s := 2 * CellHeight / base.BaseLineHeight
	base.BaseTypeSize *= s
	base.BaseLineHeight *= s
	return base
}
