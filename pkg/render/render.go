package render

import (
	"unicode"

	"github.com/matzehuels/tangent/pkg/chaos"
	"github.com/matzehuels/tangent/pkg/erosion"
	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/random"
	"github.com/matzehuels/tangent/pkg/visual"
)

// Measurer reports the advance width of a string at a type size.
type Measurer interface {
	Advance(s string, size float64) float64
}

// Canvas receives glyph draw commands.
type Canvas interface {
	DrawGlyph(g Glyph)
}

// Options holds the fixed tracking and effect constants.
type Options struct {
	LetterSpacing float64
	WordSpacing   float64
	Jitter        float64
	GhostOffset   float64
	GhostAlphaMin float64
	GhostAlphaMax float64
	GlitchSet     []rune
}

// DefaultGlitchSet holds the substitution symbols.
var DefaultGlitchSet = []rune{'/', '|', '·', '—'}

// DefaultOptions returns the stock constants.
func DefaultOptions() Options {
	return Options{
		LetterSpacing: 1.12,
		WordSpacing:   2.0,
		Jitter:        1.2,
		GhostOffset:   2,
		GhostAlphaMin: 60,
		GhostAlphaMax: 150,
		GlitchSet:     DefaultGlitchSet,
	}
}

// Input is everything a frame depends on besides randomness and measurement.
type Input struct {
	Paragraph  paragraph.Paragraph
	Thresholds *erosion.Table
	Chaos      chaos.State
	Metrics    layout.Metrics
	Width      float64
	Height     float64
	Preset     visual.Preset
}

// Glyph is one draw command. X and Y are the baseline origin; Alpha is on a
// 0..255 scale.
type Glyph struct {
	Line     int     `json:"line"`
	Pos      int     `json:"pos"`
	Rune     rune    `json:"rune"`
	Source   rune    `json:"source"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Alpha    float64 `json:"alpha"`
	Ghost    bool    `json:"ghost,omitempty"`
	Glitched bool    `json:"glitched,omitempty"`
}

// Stats counts what happened to the characters of a frame.
type Stats struct {
	Characters int `json:"characters"`
	Eroded     int `json:"eroded"`
	Visible    int `json:"visible"`
	Glitched   int `json:"glitched"`
	Ghosts     int `json:"ghosts"`
}

// Frame is a complete, self-contained rendering.
type Frame struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Metrics layout.Metrics `json:"metrics"`
	Chaos   chaos.State    `json:"chaos"`
	Params  visual.Params  `json:"params"`
	Glyphs  []Glyph        `json:"glyphs"`
	Stats   Stats          `json:"stats"`
}

// Draw replays the frame's commands onto c in order.
func (f Frame) Draw(c Canvas) {
	for _, g := range f.Glyphs {
		c.DrawGlyph(g)
	}
}

// RenderFrame computes one frame. Visual parameters are derived from the
// running maximum of chaos on every call and not kept.
func RenderFrame(in Input, m Measurer, src random.Source, opts Options) Frame {
	params := visual.Interpolate(in.Chaos.Max, in.Preset)
	f := Frame{
		Width:   in.Width,
		Height:  in.Height,
		Metrics: in.Metrics,
		Chaos:   in.Chaos,
		Params:  params,
		Glyphs:  make([]Glyph, 0, in.Paragraph.RuneCount()),
	}

	size := in.Metrics.TypeSize
	spaceStep := m.Advance(" ", size) * opts.WordSpacing

	for i := range in.Paragraph.LineCount() {
		line := in.Paragraph.Line(i)
		steps := make([]float64, len(line))
		lineW := 0.0
		for j, r := range line {
			if paragraph.IsSpace(r) {
				steps[j] = spaceStep
			} else {
				steps[j] = m.Advance(string(r), size) * opts.LetterSpacing
			}
			lineW += steps[j]
		}

		x := layout.CenterX(in.Width, lineW)
		y := in.Metrics.LineY(i)

		for j, r := range line {
			f.Stats.Characters++
			if in.Thresholds.Eroded(i, j, in.Chaos.Max) {
				f.Stats.Eroded++
				x += steps[j]
				continue
			}

			jx := random.Range(src, -opts.Jitter, opts.Jitter) * params.Distortion
			jy := random.Range(src, -opts.Jitter, opts.Jitter) * params.Distortion

			g := Glyph{Line: i, Pos: j, Rune: r, Source: r, X: x + jx, Y: y + jy, Size: size}
			if !paragraph.IsSpace(r) {
				f.Stats.Visible++
				if len(opts.GlitchSet) > 0 && random.Chance(src, params.GlitchProb) {
					g.Rune = random.Pick(src, opts.GlitchSet)
					g.Glitched = true
					f.Stats.Glitched++
				}
			}
			g.Alpha = random.Range(src, params.MinAlpha, params.MaxAlpha)
			f.emit(g)

			if random.Chance(src, params.GhostProb) {
				ghost := g
				ghost.X += random.Range(src, -opts.GhostOffset, opts.GhostOffset)
				ghost.Y += random.Range(src, -opts.GhostOffset, opts.GhostOffset)
				ghost.Alpha = random.Range(src, opts.GhostAlphaMin, opts.GhostAlphaMax)
				ghost.Ghost = true
				f.emit(ghost)
			}

			x += steps[j]
		}
	}
	return f
}

func (f *Frame) emit(g Glyph) {
	if unicode.IsSpace(g.Rune) {
		return
	}
	if g.Ghost {
		f.Stats.Ghosts++
	}
	f.Glyphs = append(f.Glyphs, g)
}
