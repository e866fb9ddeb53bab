// Package scene wires the core components into an event-driven renderer.
//
// A [Scene] owns the paragraph, its erosion thresholds, the chaos
// controller and the current layout. Input events update chaos; resize
// events recompute the layout; each is followed by one synchronous render
// pass that returns a complete [render.Frame]. There is no frame loop:
// nothing is drawn unless an event asks for it.
//
// A scene is not safe for concurrent use. It belongs to exactly one event
// loop (a terminal UI, a request handler, a batch replay).
package scene

import (
	"time"

	"github.com/matzehuels/tangent/pkg/chaos"
	"github.com/matzehuels/tangent/pkg/erosion"
	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/observability"
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/random"
	"github.com/matzehuels/tangent/pkg/render"
	"github.com/matzehuels/tangent/pkg/visual"
)

// Options collects the constants of every core component.
type Options struct {
	Layout    layout.Options
	Erosion   erosion.Options
	Render    render.Options
	Preset    visual.Preset
	MaxLength int
}

// DefaultOptions returns the stock constants of every component.
func DefaultOptions() Options {
	return Options{
		Layout:    layout.DefaultOptions(),
		Erosion:   erosion.DefaultOptions(),
		Render:    render.DefaultOptions(),
		Preset:    visual.DefaultPreset(),
		MaxLength: chaos.DefaultMaxLength,
	}
}

// Option configures a Scene.
type Option func(*Scene)

// WithOptions replaces the component constants.
func WithOptions(o Options) Option { return func(s *Scene) { s.opts = o } }

// WithSource sets the randomness source used for thresholds and frames.
func WithSource(src random.Source) Option { return func(s *Scene) { s.src = src } }

// WithSeed seeds a fresh PCG source.
func WithSeed(seed uint64) Option { return func(s *Scene) { s.src = random.New(seed) } }

// WithSize sets the initial surface size.
func WithSize(width, height float64) Option {
	return func(s *Scene) { s.width, s.height = width, height }
}

// Scene is the event dispatcher.
type Scene struct {
	paragraph paragraph.Paragraph
	measurer  render.Measurer
	src       random.Source
	opts      Options

	table   *erosion.Table
	chaos   *chaos.Controller
	width   float64
	height  float64
	metrics layout.Metrics
}

// New builds a scene for p. The threshold table is drawn here, once, from
// the scene's source; it is never redrawn for the life of the scene.
func New(p paragraph.Paragraph, m render.Measurer, opts ...Option) *Scene {
	s := &Scene{paragraph: p, measurer: m, opts: DefaultOptions()}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = random.New(random.NewSeed())
	}
	s.table = erosion.NewTable(p, s.src, s.opts.Erosion)
	s.chaos = chaos.NewController(chaos.WithMaxLength(s.opts.MaxLength))
	s.metrics = layout.Compute(p.LineCount(), s.height, s.opts.Layout)
	return s
}

// Resize records a new surface size and recomputes the layout.
func (s *Scene) Resize(width, height float64) {
	s.width, s.height = width, height
	s.metrics = layout.Compute(s.paragraph.LineCount(), height, s.opts.Layout)
	observability.Scene().OnResize(width, height, s.metrics.TypeSize)
}

// Input feeds the current input length to the chaos controller.
func (s *Scene) Input(length int) chaos.State {
	st := s.chaos.OnInputChanged(length)
	observability.Scene().OnInput(length, st.Level, st.Max)
	return st
}

// Frame renders the current state.
func (s *Scene) Frame() render.Frame {
	start := time.Now()
	f := render.RenderFrame(render.Input{
		Paragraph:  s.paragraph,
		Thresholds: s.table,
		Chaos:      s.chaos.State(),
		Metrics:    s.metrics,
		Width:      s.width,
		Height:     s.height,
		Preset:     s.opts.Preset,
	}, s.measurer, s.src, s.opts.Render)
	observability.Scene().OnFrame(len(f.Glyphs), f.Stats.Eroded, time.Since(start))
	return f
}

// HandleInput updates chaos and renders.
func (s *Scene) HandleInput(length int) render.Frame {
	s.Input(length)
	return s.Frame()
}

// HandleResize updates the layout and renders.
func (s *Scene) HandleResize(width, height float64) render.Frame {
	s.Resize(width, height)
	return s.Frame()
}

// Chaos returns the current chaos state.
func (s *Scene) Chaos() chaos.State { return s.chaos.State() }

// Metrics returns the current layout.
func (s *Scene) Metrics() layout.Metrics { return s.metrics }

// Size returns the current surface size.
func (s *Scene) Size() (width, height float64) { return s.width, s.height }

// Paragraph returns the paragraph being rendered.
func (s *Scene) Paragraph() paragraph.Paragraph { return s.paragraph }

// Thresholds returns the scene's threshold table.
func (s *Scene) Thresholds() *erosion.Table { return s.table }
