package sink

import (
	"encoding/json"

	"github.com/matzehuels/tangent/pkg/chaos"
	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/render"
	"github.com/matzehuels/tangent/pkg/visual"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID  string
	seed   uint64
	inputs []int
	indent bool
}

// WithRunID tags the document with the id of the run that produced it.
func WithRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

// WithSeed records the random seed the frame was rendered with.
func WithSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithInputs records the input lengths replayed before the frame.
func WithInputs(inputs []int) JSONOption { return func(r *jsonRenderer) { r.inputs = inputs } }

// WithCompactJSON disables indentation.
func WithCompactJSON() JSONOption { return func(r *jsonRenderer) { r.indent = false } }

// Document is the JSON form of a frame.
type Document struct {
	RunID   string         `json:"run_id,omitempty"`
	Seed    uint64         `json:"seed"`
	Inputs  []int          `json:"inputs,omitempty"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Chaos   chaos.State    `json:"chaos"`
	Params  visual.Params  `json:"params"`
	Metrics layout.Metrics `json:"metrics"`
	Stats   render.Stats   `json:"stats"`
	Glyphs  []GlyphDoc     `json:"glyphs"`
}

// GlyphDoc is one draw command with its runes spelled as strings.
type GlyphDoc struct {
	Line     int     `json:"line"`
	Pos      int     `json:"pos"`
	Char     string  `json:"char"`
	Source   string  `json:"source"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Alpha    float64 `json:"alpha"`
	Ghost    bool    `json:"ghost,omitempty"`
	Glitched bool    `json:"glitched,omitempty"`
}

// RenderJSON encodes the frame as a [Document].
func RenderJSON(f render.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{indent: true}
	for _, opt := range opts {
		opt(&r)
	}

	doc := Document{
		RunID:   r.runID,
		Seed:    r.seed,
		Inputs:  r.inputs,
		Width:   f.Width,
		Height:  f.Height,
		Chaos:   f.Chaos,
		Params:  f.Params,
		Metrics: f.Metrics,
		Stats:   f.Stats,
		Glyphs:  make([]GlyphDoc, len(f.Glyphs)),
	}
	for i, g := range f.Glyphs {
		doc.Glyphs[i] = GlyphDoc{
			Line:     g.Line,
			Pos:      g.Pos,
			Char:     string(g.Rune),
			Source:   string(g.Source),
			X:        g.X,
			Y:        g.Y,
			Size:     g.Size,
			Alpha:    g.Alpha,
			Ghost:    g.Ghost,
			Glitched: g.Glitched,
		}
	}

	if r.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
