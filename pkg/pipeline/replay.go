package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/tangent/pkg/fonts"
	"github.com/matzehuels/tangent/pkg/render"
	"github.com/matzehuels/tangent/pkg/render/sink"
	"github.com/matzehuels/tangent/pkg/scene"
)

// Replay builds a scene from opts and feeds it every input in order. It
// returns len(opts.Inputs)+1 frames: the baseline after sizing the surface,
// then one per input event. Frames are measured with the embedded font.
func Replay(ctx context.Context, opts Options) ([]render.Frame, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	m := fonts.NewMeasurer()
	defer m.Close()
	return replay(ctx, opts, m, opts.Config.SceneOptions(), opts.Width, opts.Height)
}

// ReplayTerminal is Replay for terminal cells. The surface is opts.Width by
// opts.Height virtual pixels and text is laid out with sink.TerminalLayout.
func ReplayTerminal(ctx context.Context, opts Options) ([]render.Frame, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	so := opts.Config.SceneOptions()
	so.Layout = sink.TerminalLayout(so.Layout)
	return replay(ctx, opts, sink.CellMeasurer{}, so, opts.Width, opts.Height)
}

func replay(ctx context.Context, opts Options, m render.Measurer, so scene.Options, w, h float64) ([]render.Frame, error) {
	s := scene.New(opts.Paragraph, m, scene.WithOptions(so), scene.WithSeed(opts.Seed))
	frames := make([]render.Frame, 0, len(opts.Inputs)+1)
	frames = append(frames, s.HandleResize(w, h))
	for _, n := range opts.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frames = append(frames, s.HandleInput(n))
	}
	return frames, nil
}

// encoder turns frames into artifacts for one run.
type encoder struct {
	opts     Options
	runID    string
	terminal []render.Frame
}

func (e *encoder) encode(ctx context.Context, frames []render.Frame, format string, index int) ([]byte, error) {
	f := frames[index]
	switch format {
	case FormatSVG:
		return sink.RenderSVG(f, sink.WithPalette(e.opts.Config.Palette)), nil
	case FormatPNG:
		return sink.RenderPNG(f, sink.WithScale(e.opts.Scale), sink.WithPNGPalette(e.opts.Config.Palette))
	case FormatJSON:
		return sink.RenderJSON(f,
			sink.WithRunID(e.runID),
			sink.WithSeed(e.opts.Seed),
			sink.WithInputs(e.opts.Inputs[:index]),
		)
	case FormatANSI, FormatText:
		if e.terminal == nil {
			var err error
			if e.terminal, err = ReplayTerminal(ctx, e.opts); err != nil {
				return nil, err
			}
		}
		ansiOpts := []sink.ANSIOption{sink.WithANSIPalette(e.opts.Config.Palette)}
		if format == FormatText {
			ansiOpts = append(ansiOpts, sink.WithPlainText())
		}
		return []byte(sink.RenderANSI(e.terminal[index], ansiOpts...) + "\n"), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// measure runs fn and returns its duration.
func measure(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}
