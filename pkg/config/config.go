// Package config loads tangent's constants from a TOML file.
//
// Configuration is layered: [Default] mirrors every package's built-in
// constants, a TOML file may override any subset of them, and command-line
// flags are applied last by the caller. Missing keys keep their defaults;
// unknown keys are rejected so typos do not pass silently.
//
//	cfg, err := config.Load(config.Path(), true)
//	if err != nil {
//	    return err
//	}
//	opts := cfg.SceneOptions()
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tangent/pkg/cache"
	"github.com/matzehuels/tangent/pkg/chaos"
	"github.com/matzehuels/tangent/pkg/erosion"
	"github.com/matzehuels/tangent/pkg/errors"
	"github.com/matzehuels/tangent/pkg/layout"
	"github.com/matzehuels/tangent/pkg/render"
	"github.com/matzehuels/tangent/pkg/render/sink"
	"github.com/matzehuels/tangent/pkg/scene"
	"github.com/matzehuels/tangent/pkg/visual"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config is the full configuration document.
type Config struct {
	Chaos   Chaos        `toml:"chaos"`
	Erosion Erosion      `toml:"erosion"`
	Layout  Layout       `toml:"layout"`
	Render  Render       `toml:"render"`
	Visual  Visual       `toml:"visual"`
	Palette sink.Palette `toml:"palette"`
	Output  Output       `toml:"output"`
	Cache   Cache        `toml:"cache"`
	Serve   Serve        `toml:"serve"`
}

// Chaos configures the chaos controller.
type Chaos struct {
	MaxLength int `toml:"max_length"`
}

// Erosion configures the threshold table.
type Erosion struct {
	MaxThreshold  float64 `toml:"max_threshold"`
	SpaceSentinel float64 `toml:"space_sentinel"`
}

// Layout configures paragraph fitting.
type Layout struct {
	BaseTypeSize   float64 `toml:"base_type_size"`
	BaseLineHeight float64 `toml:"base_line_height"`
	FitRatio       float64 `toml:"fit_ratio"`
}

// Render configures tracking and per-glyph effects.
type Render struct {
	LetterSpacing float64  `toml:"letter_spacing"`
	WordSpacing   float64  `toml:"word_spacing"`
	Jitter        float64  `toml:"jitter"`
	GhostOffset   float64  `toml:"ghost_offset"`
	GhostAlphaMin float64  `toml:"ghost_alpha_min"`
	GhostAlphaMax float64  `toml:"ghost_alpha_max"`
	GlitchSet     []string `toml:"glitch_set"`
}

// Visual configures the parameter presets.
type Visual struct {
	Exponent float64       `toml:"exponent"`
	Base     visual.Params `toml:"base"`
	Max      visual.Params `toml:"max"`
}

// Output holds defaults for the render command.
type Output struct {
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
	Seed    uint64   `toml:"seed"`
	Formats []string `toml:"formats"`
	Scale   float64  `toml:"scale"`
}

// Cache configures the artifact cache.
type Cache struct {
	Dir string `toml:"dir"`
	TTL string `toml:"ttl"`
}

// Serve configures the frame server.
type Serve struct {
	Addr          string `toml:"addr"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Default returns the built-in configuration.
func Default() Config {
	ro := render.DefaultOptions()
	glitch := make([]string, len(ro.GlitchSet))
	for i, r := range ro.GlitchSet {
		glitch[i] = string(r)
	}
	preset := visual.DefaultPreset()
	return Config{
		Chaos: Chaos{MaxLength: chaos.DefaultMaxLength},
		Erosion: Erosion{
			MaxThreshold:  erosion.DefaultMaxThreshold,
			SpaceSentinel: erosion.DefaultSpaceSentinel,
		},
		Layout: Layout{
			BaseTypeSize:   layout.DefaultBaseTypeSize,
			BaseLineHeight: layout.DefaultBaseLineHeight,
			FitRatio:       layout.DefaultFitRatio,
		},
		Render: Render{
			LetterSpacing: ro.LetterSpacing,
			WordSpacing:   ro.WordSpacing,
			Jitter:        ro.Jitter,
			GhostOffset:   ro.GhostOffset,
			GhostAlphaMin: ro.GhostAlphaMin,
			GhostAlphaMax: ro.GhostAlphaMax,
			GlitchSet:     glitch,
		},
		Visual:  Visual{Exponent: preset.Exponent, Base: preset.Base, Max: preset.Max},
		Palette: sink.DefaultPalette,
		Output: Output{
			Width:   1200,
			Height:  1000,
			Seed:    42,
			Formats: []string{"svg"},
			Scale:   2,
		},
		Cache: Cache{TTL: "168h"},
		Serve: Serve{Addr: ":8080"},
	}
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/tangent/config.toml, falling back to the OS config dir.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tangent", FileName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tangent", FileName)
	}
	return filepath.Join(".tangent", FileName)
}

// Load reads path over the defaults and validates the result. A missing
// file is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && optional {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path, creating parent directories. It refuses to
// overwrite an existing file unless force is set.
func (c Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists", path)
		}
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Validate checks every constant against the ranges the core relies on.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	if c.Chaos.MaxLength <= 0 {
		return invalid("chaos.max_length must be positive, got %d", c.Chaos.MaxLength)
	}
	if c.Erosion.MaxThreshold <= 0 || c.Erosion.MaxThreshold > 1 {
		return invalid("erosion.max_threshold must be in (0, 1], got %v", c.Erosion.MaxThreshold)
	}
	if c.Erosion.SpaceSentinel <= 1 {
		return invalid("erosion.space_sentinel must exceed 1.0, got %v", c.Erosion.SpaceSentinel)
	}
	if c.Layout.BaseTypeSize <= 0 || c.Layout.BaseLineHeight <= 0 {
		return invalid("layout sizes must be positive")
	}
	if c.Layout.FitRatio <= 0 || c.Layout.FitRatio > 1 {
		return invalid("layout.fit_ratio must be in (0, 1], got %v", c.Layout.FitRatio)
	}
	if c.Render.LetterSpacing <= 0 || c.Render.WordSpacing <= 0 {
		return invalid("render spacing factors must be positive")
	}
	if c.Render.Jitter < 0 || c.Render.GhostOffset < 0 {
		return invalid("render jitter and ghost_offset must not be negative")
	}
	if err := checkAlphaRange("render.ghost_alpha", c.Render.GhostAlphaMin, c.Render.GhostAlphaMax); err != nil {
		return err
	}
	if len(c.Render.GlitchSet) == 0 {
		return invalid("render.glitch_set must not be empty")
	}
	for _, s := range c.Render.GlitchSet {
		if utf8.RuneCountInString(s) != 1 {
			return invalid("render.glitch_set entries must be single characters, got %q", s)
		}
	}
	if c.Visual.Exponent <= 0 {
		return invalid("visual.exponent must be positive, got %v", c.Visual.Exponent)
	}
	if err := checkParams("visual.base", c.Visual.Base); err != nil {
		return err
	}
	if err := checkParams("visual.max", c.Visual.Max); err != nil {
		return err
	}
	if err := c.Palette.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(c.Output.Width, c.Output.Height); err != nil {
		return err
	}
	if err := errors.ValidateRaster(c.Output.Width, c.Output.Height, c.Output.Scale); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

func checkAlphaRange(name string, lo, hi float64) error {
	if lo < 0 || hi > 255 || lo > hi {
		return errors.New(errors.ErrCodeInvalidConfig, "%s range must satisfy 0 <= min <= max <= 255, got [%v, %v]", name, lo, hi)
	}
	return nil
}

func checkParams(name string, p visual.Params) error {
	if p.Distortion < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s.distortion must not be negative", name)
	}
	if p.GlitchProb < 0 || p.GlitchProb > 1 || p.GhostProb < 0 || p.GhostProb > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s probabilities must be in [0, 1]", name)
	}
	return checkAlphaRange(name+".alpha", p.MinAlpha, p.MaxAlpha)
}

// CacheTTL parses the cache ttl. An empty value means entries never expire.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl %q is not a valid duration", c.Cache.TTL)
	}
	return d, nil
}

// SceneOptions converts the configuration into component options.
func (c Config) SceneOptions() scene.Options {
	glitch := make([]rune, 0, len(c.Render.GlitchSet))
	for _, s := range c.Render.GlitchSet {
		r, _ := utf8.DecodeRuneInString(s)
		glitch = append(glitch, r)
	}
	return scene.Options{
		Layout: layout.Options{
			BaseTypeSize:   c.Layout.BaseTypeSize,
			BaseLineHeight: c.Layout.BaseLineHeight,
			FitRatio:       c.Layout.FitRatio,
		},
		Erosion: erosion.Options{
			MaxThreshold:  c.Erosion.MaxThreshold,
			SpaceSentinel: c.Erosion.SpaceSentinel,
		},
		Render: render.Options{
			LetterSpacing: c.Render.LetterSpacing,
			WordSpacing:   c.Render.WordSpacing,
			Jitter:        c.Render.Jitter,
			GhostOffset:   c.Render.GhostOffset,
			GhostAlphaMin: c.Render.GhostAlphaMin,
			GhostAlphaMax: c.Render.GhostAlphaMax,
			GlitchSet:     glitch,
		},
		Preset: visual.Preset{
			Base:     c.Visual.Base,
			Max:      c.Visual.Max,
			Exponent: c.Visual.Exponent,
		},
		MaxLength: c.Chaos.MaxLength,
	}
}

// Hash identifies the constants that affect rendering, for cache keys.
// It fails when a value has no JSON encoding, such as NaN.
func (c Config) Hash() (string, error) {
	return cache.HashJSON(struct {
		Chaos   Chaos
		Erosion Erosion
		Layout  Layout
		Render  Render
		Visual  Visual
		Palette sink.Palette
	}{c.Chaos, c.Erosion, c.Layout, c.Render, c.Visual, c.Palette})
}
