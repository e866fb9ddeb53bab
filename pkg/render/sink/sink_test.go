package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/tangent/pkg/chaos"
	"github.com/matzehuels/tangent/pkg/errors"
	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/render"
)

func testFrame() render.Frame {
	return render.Frame{
		Width:  100,
		Height: 60,
		Chaos:  chaos.State{Level: 0.5, Max: 0.5},
		Glyphs: []render.Glyph{
			{Line: 0, Pos: 0, Rune: 'a', Source: 'a', X: 5, Y: 20, Size: 12, Alpha: 255},
			{Line: 0, Pos: 1, Rune: '<', Source: 'b', X: 15, Y: 20, Size: 12, Alpha: 200, Glitched: true},
			{Line: 0, Pos: 1, Rune: '<', Source: 'b', X: 16, Y: 21, Size: 12, Alpha: 90, Ghost: true},
		},
		Stats: render.Stats{Characters: 2, Visible: 2, Glitched: 1, Ghosts: 1},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame()))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output does not start with <svg: %q", svg[:min(len(svg), 20)])
	}
	if got := strings.Count(svg, "<text "); got != 3 {
		t.Errorf("text elements = %d, want 3", got)
	}
	if got := strings.Count(svg, `class="ghost"`); got != 1 {
		t.Errorf("ghost elements = %d, want 1", got)
	}
	if !strings.Contains(svg, "&lt;</text>") {
		t.Error("glyph text not escaped")
	}
	if !strings.Contains(svg, `fill-opacity="1.000"`) {
		t.Error("opaque glyph missing fill-opacity 1")
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("paper rect missing")
	}
	if !strings.Contains(svg, "@font-face") {
		t.Error("font not embedded")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testFrame(),
		WithoutFontEmbed(),
		WithPalette(Palette{Ink: "#112233", Paper: "#eeeeee"}),
	))
	if strings.Contains(svg, "@font-face") {
		t.Error("font embedded despite WithoutFontEmbed")
	}
	if !strings.Contains(svg, `fill="#112233"`) || !strings.Contains(svg, `fill="#eeeeee"`) {
		t.Error("palette not applied")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame(), WithRunID("run-1"), WithSeed(7), WithInputs([]int{40, 0}))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if doc.RunID != "run-1" || doc.Seed != 7 {
		t.Errorf("RunID, Seed = %q, %d", doc.RunID, doc.Seed)
	}
	if len(doc.Inputs) != 2 {
		t.Errorf("Inputs = %v", doc.Inputs)
	}
	if len(doc.Glyphs) != 3 {
		t.Fatalf("Glyphs = %d, want 3", len(doc.Glyphs))
	}
	if doc.Glyphs[1].Char != "<" || doc.Glyphs[1].Source != "b" {
		t.Errorf("glyph 1 = %+v", doc.Glyphs[1])
	}
	if doc.Chaos.Max != 0.5 {
		t.Errorf("Chaos.Max = %v, want 0.5", doc.Chaos.Max)
	}
	if doc.Stats.Ghosts != 1 {
		t.Errorf("Stats.Ghosts = %d, want 1", doc.Stats.Ghosts)
	}
}

func TestRenderJSONCompact(t *testing.T) {
	data, err := RenderJSON(testFrame(), WithCompactJSON())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Error("compact output contains newlines")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testFrame(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 60 {
		t.Errorf("size = %dx%d, want 100x60", b.Dx(), b.Dy())
	}
	r, g, bl, _ := img.At(99, 59).RGBA()
	if r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
		t.Errorf("corner pixel = %d,%d,%d, want paper white", r>>8, g>>8, bl>>8)
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(testFrame())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if got := img.Bounds().Dx(); got != 200 {
		t.Errorf("width = %d, want 200 at default scale", got)
	}
}

func TestRenderPNGEmptySurface(t *testing.T) {
	if _, err := RenderPNG(render.Frame{}); err == nil {
		t.Error("RenderPNG() on a 0x0 frame succeeded")
	}
}

func TestRenderPNGOversized(t *testing.T) {
	f := testFrame()
	_, err := RenderPNG(f, WithScale(1e6))
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidSize)
	}
}

func TestGridPlacement(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float64
		col, row int
	}{
		{"origin cell", 0.5, 19, 0, 0},
		{"baseline on boundary", 5, 20, 0, 0},
		{"second column", 15, 20, 1, 0},
		{"second row", 5, 25, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(4, 3)
			g.DrawGlyph(render.Glyph{Rune: 'x', X: tt.x, Y: tt.y, Alpha: 100})
			if r, _, ok := g.At(tt.col, tt.row); !ok || r != 'x' {
				t.Errorf("At(%d,%d) = %q,%v", tt.col, tt.row, r, ok)
			}
		})
	}
}

func TestGridCollisionKeepsOpaque(t *testing.T) {
	g := NewGrid(2, 1)
	g.DrawGlyph(render.Glyph{Rune: 'a', X: 1, Y: 10, Alpha: 200})
	g.DrawGlyph(render.Glyph{Rune: 'b', X: 2, Y: 10, Alpha: 90})
	if r, a, _ := g.At(0, 0); r != 'a' || a != 200 {
		t.Errorf("after fainter glyph: %q %v, want 'a' 200", r, a)
	}
	g.DrawGlyph(render.Glyph{Rune: 'c', X: 3, Y: 10, Alpha: 220})
	if r, _, _ := g.At(0, 0); r != 'c' {
		t.Errorf("after stronger glyph: %q, want 'c'", r)
	}
}

func TestGridDropsOutside(t *testing.T) {
	g := NewGrid(2, 2)
	g.DrawGlyph(render.Glyph{Rune: 'x', X: -1, Y: 10, Alpha: 255})
	g.DrawGlyph(render.Glyph{Rune: 'x', X: 25, Y: 10, Alpha: 255})
	g.DrawGlyph(render.Glyph{Rune: 'x', X: 5, Y: 45, Alpha: 255})
	if got := g.PlainText(); got != "  \n  " {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestRenderANSIPlain(t *testing.T) {
	got := RenderANSI(testFrame(), WithPlainText())
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "a<") {
		t.Errorf("first row = %q, want prefix \"a<\"", lines[0])
	}
	if len(lines[0]) != 10 {
		t.Errorf("row width = %d, want 10", len(lines[0]))
	}
}

func TestCellMeasurer(t *testing.T) {
	var m CellMeasurer
	if got := m.Advance("·", 60); got != CellWidth {
		t.Errorf("Advance(·) = %v, want %v", got, CellWidth)
	}
	w, h := SurfaceSize(80, 24)
	if w != 800 || h != 480 {
		t.Errorf("SurfaceSize = %v,%v", w, h)
	}
}

func TestPalette(t *testing.T) {
	if got := DefaultPalette.Blend(255).Hex(); got != "#000000" {
		t.Errorf("Blend(255) = %s, want ink", got)
	}
	if got := DefaultPalette.Blend(0).Hex(); got != "#ffffff" {
		t.Errorf("Blend(0) = %s, want paper", got)
	}
	if err := DefaultPalette.Validate(); err != nil {
		t.Errorf("DefaultPalette.Validate() = %v", err)
	}
	if err := (Palette{Ink: "black", Paper: "#fff"}).Validate(); err == nil {
		t.Error("Validate() accepted a named color")
	}
}

func TestTerminalLayout(t *testing.T) {
	got := TerminalLayout(layout.DefaultOptions())
	if got.BaseLineHeight != 2*CellHeight {
		t.Errorf("BaseLineHeight = %v, want %v", got.BaseLineHeight, 2*CellHeight)
	}
	if got.BaseTypeSize != 30 {
		t.Errorf("BaseTypeSize = %v, want 30", got.BaseTypeSize)
	}
	if got.FitRatio != layout.DefaultFitRatio {
		t.Errorf("FitRatio changed to %v", got.FitRatio)
	}
}
