package sink

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tangent/pkg/errors"
)

// Palette names the ink and paper colors as hex strings.
type Palette struct {
	Ink   string `json:"ink" toml:"ink"`
	Paper string `json:"paper" toml:"paper"`
}

// DefaultPalette is black ink on white paper.
var DefaultPalette = Palette{Ink: "#000000", Paper: "#ffffff"}

// Validate checks that both colors parse as hex.
func (p Palette) Validate() error {
	if _, err := colorful.Hex(p.Ink); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ink color %q", p.Ink)
	}
	if _, err := colorful.Hex(p.Paper); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "paper color %q", p.Paper)
	}
	return nil
}

// colors parses the palette, falling back to the defaults for any color
// that does not parse.
func (p Palette) colors() (ink, paper colorful.Color) {
	ink, err := colorful.Hex(p.Ink)
	if err != nil {
		ink, _ = colorful.Hex(DefaultPalette.Ink)
	}
	paper, err = colorful.Hex(p.Paper)
	if err != nil {
		paper, _ = colorful.Hex(DefaultPalette.Paper)
	}
	return ink, paper
}

// Blend returns the color of ink laid over paper at alpha (0..255).
func (p Palette) Blend(alpha float64) colorful.Color {
	ink, paper := p.colors()
	t := max(0, min(alpha/255, 1))
	return paper.BlendRgb(ink, t).Clamped()
}
