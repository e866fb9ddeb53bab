package render

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/tangent/pkg/chaos"
	"github.com/matzehuels/tangent/pkg/erosion"
	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/random"
	"github.com/matzehuels/tangent/pkg/visual"
)

// monoMeasurer gives every rune half the type size.
type monoMeasurer struct{}

func (monoMeasurer) Advance(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * 0.5
}

type recorder struct{ glyphs []Glyph }

func (r *recorder) DrawGlyph(g Glyph) { r.glyphs = append(r.glyphs, g) }

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

// newInput builds an input whose thresholds all sit at 0.4 for non-space
// characters.
func newInput(text string, maxChaos float64) Input {
	p := paragraph.MustParse(text)
	return Input{
		Paragraph:  p,
		Thresholds: erosion.NewTable(p, random.Constant(0.5), erosion.DefaultOptions()),
		Chaos:      chaos.State{Level: maxChaos, Max: maxChaos},
		Metrics:    layout.Metrics{TypeSize: 20, LineHeight: 30, BaseY: 50, Scale: 1},
		Width:      400,
		Height:     300,
		Preset:     visual.DefaultPreset(),
	}
}

func TestRenderFrameCalm(t *testing.T) {
	in := newInput("ab c", 0)
	f := RenderFrame(in, monoMeasurer{}, random.Constant(0.5), DefaultOptions())

	if f.Params != visual.Base {
		t.Errorf("Params = %+v, want Base", f.Params)
	}
	if len(f.Glyphs) != 3 {
		t.Fatalf("got %d glyphs, want 3 (space omitted, no ghosts)", len(f.Glyphs))
	}

	// Letters step 10*1.12, the space 10*2.
	letter, space := 10*1.12, 10*2.0
	lineW := 3*letter + space
	x0 := 200 - lineW/2
	wantX := []float64{x0, x0 + letter, x0 + 2*letter + space}
	for i, g := range f.Glyphs {
		// A roll of 0.5 centers the jitter band, so positions are exact.
		if !near(g.X, wantX[i]) {
			t.Errorf("glyph %d X = %v, want %v", i, g.X, wantX[i])
		}
		if !near(g.Y, 50) {
			t.Errorf("glyph %d Y = %v, want 50", i, g.Y)
		}
		if !near(g.Alpha, 210) {
			t.Errorf("glyph %d Alpha = %v, want 210", i, g.Alpha)
		}
		if g.Size != 20 {
			t.Errorf("glyph %d Size = %v, want 20", i, g.Size)
		}
	}
	if f.Stats.Characters != 4 || f.Stats.Visible != 3 || f.Stats.Eroded != 0 {
		t.Errorf("Stats = %+v", f.Stats)
	}
}

func TestRenderFrameLinePositions(t *testing.T) {
	in := newInput("a\nbb\nccc", 0)
	f := RenderFrame(in, monoMeasurer{}, random.Constant(0.5), DefaultOptions())
	for _, g := range f.Glyphs {
		if want := in.Metrics.LineY(g.Line); !near(g.Y, want) {
			t.Errorf("line %d glyph Y = %v, want %v", g.Line, g.Y, want)
		}
	}
	// Every line is centered on the surface.
	for line := range 3 {
		var first, last Glyph
		n := 0
		for _, g := range f.Glyphs {
			if g.Line != line {
				continue
			}
			if n == 0 {
				first = g
			}
			last = g
			n++
		}
		right := last.X + 10*1.12
		if !near((first.X+right)/2, 200) {
			t.Errorf("line %d not centered: %v..%v", line, first.X, right)
		}
	}
}

func TestRenderFrameErodedKeepsSpacing(t *testing.T) {
	calm := RenderFrame(newInput("abc", 0), monoMeasurer{}, random.Constant(0.5), DefaultOptions())
	eroded := RenderFrame(newInput("abc", 0.4), monoMeasurer{}, random.Constant(0.5), DefaultOptions())

	if len(eroded.Glyphs) != 0 {
		t.Fatalf("all characters sit at threshold 0.4 and should be gone, got %d glyphs", len(eroded.Glyphs))
	}
	if eroded.Stats.Eroded != 3 {
		t.Errorf("Eroded = %d, want 3", eroded.Stats.Eroded)
	}

	// Erode only the middle character and check its neighbours stay put.
	p := paragraph.MustParse("abc")
	in := newInput("abc", 0.3)
	in.Thresholds = erosion.NewTable(p, &random.Sequence{Values: []float64{0.9, 0.25, 0.9}}, erosion.DefaultOptions())
	partial := RenderFrame(in, monoMeasurer{}, random.Constant(0.5), DefaultOptions())
	if len(partial.Glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(partial.Glyphs))
	}
	if partial.Glyphs[0].Source != 'a' || partial.Glyphs[1].Source != 'c' {
		t.Fatalf("unexpected glyphs %q %q", partial.Glyphs[0].Source, partial.Glyphs[1].Source)
	}
	// At chaos 0.3 distortion differs from the calm frame, but a centered
	// jitter roll keeps positions identical.
	if !near(partial.Glyphs[1].X, calm.Glyphs[2].X) {
		t.Errorf("'c' moved from %v to %v after 'b' eroded", calm.Glyphs[2].X, partial.Glyphs[1].X)
	}
}

func TestRenderFrameSpacesNeverErode(t *testing.T) {
	in := newInput("a b", 1)
	f := RenderFrame(in, monoMeasurer{}, random.Constant(0.5), DefaultOptions())
	if f.Stats.Eroded != 2 {
		t.Errorf("Eroded = %d, want 2 (space survives full chaos)", f.Stats.Eroded)
	}
	if f.Params != visual.Max {
		t.Errorf("Params = %+v, want Max", f.Params)
	}
}

func TestRenderFrameDrawOrder(t *testing.T) {
	seq := &random.Sequence{Values: []float64{
		0,    // jitter x: -1.2 * 0.7
		0.75, // jitter y: 0.6 * 0.7
		0.01, // glitch roll, hits 0.04
		0.3,  // glitch pick: index 1
		0,    // alpha: 185
		0.1,  // ghost roll, hits 0.40
		0.5,  // ghost dx: 0
		0,    // ghost dy: -2
		0.5,  // ghost alpha: 105
	}}
	in := newInput("a", 0)
	f := RenderFrame(in, monoMeasurer{}, seq, DefaultOptions())

	if seq.Draws() != 9 {
		t.Errorf("consumed %d random values, want 9", seq.Draws())
	}
	if len(f.Glyphs) != 2 {
		t.Fatalf("got %d glyphs, want main + ghost", len(f.Glyphs))
	}

	x0 := 200 - 10*1.12/2
	main, ghost := f.Glyphs[0], f.Glyphs[1]
	if main.Rune != '|' || !main.Glitched || main.Source != 'a' {
		t.Errorf("main = %+v, want glitched '|' from 'a'", main)
	}
	if !near(main.X, x0-1.2*0.7) || !near(main.Y, 50+0.6*0.7) {
		t.Errorf("main at (%v, %v)", main.X, main.Y)
	}
	if !near(main.Alpha, 185) {
		t.Errorf("main alpha = %v, want 185", main.Alpha)
	}
	if !ghost.Ghost || ghost.Rune != '|' {
		t.Errorf("ghost = %+v, want ghost copy of '|'", ghost)
	}
	if !near(ghost.X, main.X) || !near(ghost.Y, main.Y-2) {
		t.Errorf("ghost at (%v, %v), want (%v, %v)", ghost.X, ghost.Y, main.X, main.Y-2)
	}
	if !near(ghost.Alpha, 105) {
		t.Errorf("ghost alpha = %v, want 105", ghost.Alpha)
	}
	if f.Stats.Ghosts != 1 || f.Stats.Glitched != 1 {
		t.Errorf("Stats = %+v", f.Stats)
	}
}

func TestRenderFrameSpaceSkipsGlitchRoll(t *testing.T) {
	// A space consumes jitter x, jitter y, alpha and the ghost roll only.
	seq := &random.Sequence{Values: []float64{0.5, 0.5, 0.5, 0.9}}
	p, err := paragraph.New([]string{" "})
	if err != nil {
		t.Fatal(err)
	}
	in := newInput("x", 0)
	in.Paragraph = p
	in.Thresholds = erosion.NewTable(p, random.Constant(0.5), erosion.DefaultOptions())
	f := RenderFrame(in, monoMeasurer{}, seq, DefaultOptions())
	if seq.Draws() != 4 {
		t.Errorf("consumed %d values for a space, want 4", seq.Draws())
	}
	if len(f.Glyphs) != 0 {
		t.Errorf("space emitted %d glyphs", len(f.Glyphs))
	}
}

func TestRenderFrameEmptyGlitchSet(t *testing.T) {
	opts := DefaultOptions()
	opts.GlitchSet = nil
	f := RenderFrame(newInput("abc", 0), monoMeasurer{}, random.Constant(0), opts)
	for _, g := range f.Glyphs {
		if g.Glitched {
			t.Fatal("glitched without a glitch set")
		}
	}
}

func TestRenderFrameRanges(t *testing.T) {
	opts := DefaultOptions()
	src := random.New(11)
	for _, c := range []float64{0, 0.2, 0.5, 0.7} {
		in := newInput(paragraph.Default.String(), c)
		in.Thresholds = erosion.NewTable(in.Paragraph, random.New(3), erosion.DefaultOptions())
		f := RenderFrame(in, monoMeasurer{}, src, opts)
		p := f.Params
		for _, g := range f.Glyphs {
			if g.Ghost {
				if g.Alpha < 60 || g.Alpha >= 150 {
					t.Fatalf("ghost alpha %v outside [60,150)", g.Alpha)
				}
				continue
			}
			if g.Alpha < p.MinAlpha || g.Alpha >= p.MaxAlpha {
				t.Fatalf("alpha %v outside [%v,%v)", g.Alpha, p.MinAlpha, p.MaxAlpha)
			}
			if math.Abs(g.Y-in.Metrics.LineY(g.Line)) > 1.2*p.Distortion {
				t.Fatalf("vertical jitter %v beyond %v", g.Y-in.Metrics.LineY(g.Line), 1.2*p.Distortion)
			}
		}
	}
}

func TestRenderFrameProbabilities(t *testing.T) {
	in := newInput(paragraph.Default.String(), 0)
	src := random.New(21)
	var visible, glitched, ghosts int
	for range 200 {
		f := RenderFrame(in, monoMeasurer{}, src, DefaultOptions())
		visible += f.Stats.Visible
		glitched += f.Stats.Glitched
		ghosts += f.Stats.Ghosts
	}
	glitchRate := float64(glitched) / float64(visible)
	if math.Abs(glitchRate-0.04) > 0.01 {
		t.Errorf("glitch rate = %v, want ~0.04", glitchRate)
	}
	ghostRate := float64(ghosts) / float64(visible)
	if math.Abs(ghostRate-0.40) > 0.03 {
		t.Errorf("ghost rate = %v, want ~0.40", ghostRate)
	}
}

func TestRenderFrameDeterministic(t *testing.T) {
	in := newInput(paragraph.Default.String(), 0.35)
	a := RenderFrame(in, monoMeasurer{}, random.New(5), DefaultOptions())
	b := RenderFrame(in, monoMeasurer{}, random.New(5), DefaultOptions())
	if len(a.Glyphs) != len(b.Glyphs) {
		t.Fatalf("glyph counts differ: %d vs %d", len(a.Glyphs), len(b.Glyphs))
	}
	for i := range a.Glyphs {
		if a.Glyphs[i] != b.Glyphs[i] {
			t.Fatalf("glyph %d differs: %+v vs %+v", i, a.Glyphs[i], b.Glyphs[i])
		}
	}
}

func TestFrameDraw(t *testing.T) {
	f := RenderFrame(newInput("hello world", 0), monoMeasurer{}, random.New(1), DefaultOptions())
	var rec recorder
	f.Draw(&rec)
	if len(rec.glyphs) != len(f.Glyphs) {
		t.Fatalf("drew %d glyphs, want %d", len(rec.glyphs), len(f.Glyphs))
	}
	for i := range rec.glyphs {
		if rec.glyphs[i] != f.Glyphs[i] {
			t.Errorf("glyph %d replayed out of order", i)
		}
	}
}
