package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tangent/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	paragraph string
	inputs    string
	width     float64
	height    float64
	seed      uint64
	formats   string
	output    string
	frames    bool
	scale     float64
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Replay input lengths and write the eroded paragraph",
		Long: `Render replays a sequence of input lengths against a seeded scene and
writes the resulting frame. The same seed, inputs and surface size always
produce the same output.

Output is written to <output>.<format>, or to <output>-NNN.<format> for
every frame when --frames is set. Use -o - to stream to stdout.`,
		Example: `  # Erode the default paragraph after three keystroke bursts
  tangent render --inputs 40,120,400 -f svg,png

  # Every frame as JSON with a fixed seed
  tangent render --inputs 10,20,30 --seed 7 -f json --frames

  # Plain text to the terminal
  tangent render --inputs 250 -f txt -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.paragraph, "paragraph", "", "paragraph text file (default: built-in paragraph)")
	f.StringVar(&opts.inputs, "inputs", "", "comma-separated input lengths, replayed in order")
	f.Float64Var(&opts.width, "width", 0, "surface width in pixels (default from config)")
	f.Float64Var(&opts.height, "height", 0, "surface height in pixels (default from config)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (default from config)")
	f.StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, json, ansi, txt (comma-separated)")
	f.StringVarP(&opts.output, "output", "o", appName, "output path without extension, or - for stdout")
	f.BoolVar(&opts.frames, "frames", false, "write every frame instead of only the last")
	f.Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and render again")

	return cmd
}

// buildPipelineOpts converts flags to pipeline options.
func (c *CLI) buildPipelineOpts(opts renderOpts) (pipeline.Options, error) {
	inputs, err := parseInputs(opts.inputs)
	if err != nil {
		return pipeline.Options{}, err
	}
	p, err := loadParagraph(opts.paragraph)
	if err != nil {
		return pipeline.Options{}, err
	}
	cfg := c.Config
	return pipeline.Options{
		Inputs:    inputs,
		Width:     opts.width,
		Height:    opts.height,
		Seed:      opts.seed,
		Formats:   parseFormats(opts.formats),
		Frames:    opts.frames,
		Scale:     opts.scale,
		Refresh:   opts.refresh,
		Paragraph: p,
		Config:    &cfg,
		Logger:    c.Logger,
	}, nil
}

func (c *CLI) runRender(ctx context.Context, stdout io.Writer, opts renderOpts) error {
	popts, err := c.buildPipelineOpts(opts)
	if err != nil {
		return err
	}

	toStdout := opts.output == "-"
	if toStdout {
		uiOut = os.Stderr
		defer func() { uiOut = os.Stdout }()
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinner(ctx, os.Stderr, "Rendering...")
	spin.Start()
	res, err := runner.Execute(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered")

	if toStdout {
		for _, a := range res.Artifacts {
			if _, err := stdout.Write(a.Data); err != nil {
				return err
			}
		}
		return nil
	}

	paths, err := writeArtifacts(res.Artifacts, opts.output, opts.frames)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d artifact(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.Frames, res.Stats.Glyphs, res.Stats.Eroded, res.Stats.MaxChaos, res.CacheHit)
	return nil
}

// writeArtifacts writes each artifact next to base and returns the paths.
func writeArtifacts(arts []pipeline.Artifact, base string, numbered bool) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	paths := make([]string, 0, len(arts))
	for _, a := range arts {
		path := a.Name(base, numbered)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
