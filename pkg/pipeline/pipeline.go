// Package pipeline provides the batch rendering pipeline for tangent.
//
// This package implements the complete replay → encode pipeline used by the
// render command and the frame server. By centralizing this logic, both
// entry points share validation, defaults and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Replay: build a seeded scene, size it, then feed it each input length
//     in order, collecting the frame rendered after every event
//  2. Encode: turn frames into output formats (SVG, PNG, JSON, ANSI, text)
//
// A run is fully determined by its paragraph, seed, inputs, surface size
// and configuration, so encoded artifacts are cached under a key derived
// from those values.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs:  []int{40, 120, 400, 0},
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifact("svg").Data
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tangent/pkg/cache"
	"github.com/matzehuels/tangent/pkg/config"
	"github.com/matzehuels/tangent/pkg/errors"
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 1000.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatANSI = "ansi"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatANSI: true,
	FormatText: true,
}

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
	FormatANSI: "text/plain; charset=utf-8",
	FormatText: "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Replay options
	Inputs []int   `json:"inputs,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Seed   uint64  `json:"seed,omitempty"`

	// Encode options
	Formats []string `json:"formats,omitempty"`
	Frames  bool     `json:"frames,omitempty"` // Encode every frame, not just the last
	Scale   float64  `json:"scale,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Paragraph paragraph.Paragraph `json:"-"` // Zero value means paragraph.Default
	Config    *config.Config      `json:"-"` // Nil means config.Default()
	Logger    *log.Logger         `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool

	// configHash identifies Config in cache keys.
	configHash string
}

// Artifact is one encoded output.
type Artifact struct {
	Format string
	Index  int // Frame index; the last frame when Options.Frames is false
	Data   []byte
}

// Name returns a file name for the artifact.
func (a Artifact) Name(base string, numbered bool) string {
	if numbered {
		return fmt.Sprintf("%s-%03d.%s", base, a.Index, a.Format)
	}
	return base + "." + a.Format
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run.
	RunID string

	// Frames holds every replayed frame. It is nil when all artifacts came
	// from the cache.
	Frames []render.Frame

	// Artifacts holds encoded outputs ordered by frame, then format.
	Artifacts []Artifact

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// Artifact returns the last artifact of the given format, or the zero
// Artifact if none was produced.
func (r *Result) Artifact(format string) Artifact {
	for i := len(r.Artifacts) - 1; i >= 0; i-- {
		if r.Artifacts[i].Format == format {
			return r.Artifacts[i]
		}
	}
	return Artifact{}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Frames     int
	Glyphs     int // in the last frame
	Eroded     int // in the last frame
	MaxChaos   float64
	ReplayTime time.Duration
	EncodeTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, ansi, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults. Defaults come
// from Config when it is set, otherwise from the package constants.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == nil {
		cfg := config.Default()
		o.Config = &cfg
	}
	out := o.Config.Output

	if o.Paragraph.LineCount() == 0 {
		o.Paragraph = paragraph.Default
	}
	if o.Width == 0 {
		o.Width = or(out.Width, DefaultWidth)
	}
	if o.Height == 0 {
		o.Height = or(out.Height, DefaultHeight)
	}
	if o.Seed == 0 {
		o.Seed = or(out.Seed, DefaultSeed)
	}
	if o.Scale == 0 {
		o.Scale = or(out.Scale, DefaultScale)
	}
	if len(o.Formats) == 0 {
		o.Formats = out.Formats
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateInputLengths(o.Inputs); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) || o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidSize, "scale must be a positive number, got %v", o.Scale)
	}
	if slices.Contains(o.Formats, FormatPNG) {
		if err := errors.ValidateRaster(o.Width, o.Height, o.Scale); err != nil {
			return err
		}
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	hash, err := o.Config.Hash()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "hash config")
	}
	o.configHash = hash
	o.validated = true
	return nil
}

// FrameKeyOpts returns cache key options for frame index i.
func (o *Options) FrameKeyOpts(i int) cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Seed:       o.Seed,
		Inputs:     o.Inputs,
		Index:      i,
		Width:      o.Width,
		Height:     o.Height,
		ConfigHash: o.configHash,
	}
}

// ArtifactKeyOpts returns cache key options for one encoded format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// frameIndexes lists the frames to encode: all of them, or only the last.
// Frame 0 is the baseline before any input.
func (o *Options) frameIndexes() []int {
	last := len(o.Inputs)
	if !o.Frames {
		return []int{last}
	}
	idx := make([]int, last+1)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
