// Package visual maps the running maximum of chaos to the parameters that
// shape a frame.
//
// Chaos is eased with a power curve, then each parameter is interpolated
// linearly between a calm BASE preset and a MAX preset. Both alpha bounds
// fall as chaos rises (185->130 and 235->210), so the opacity band widens
// and drops and the text dims as it erodes.
package visual

import "math"

// DefaultExponent is the easing power applied to max chaos.
const DefaultExponent = 1.4

// Params are the per-frame rendering parameters. Alpha is on a 0..255 scale.
type Params struct {
	Distortion float64 `json:"distortion" toml:"distortion"`
	GlitchProb float64 `json:"glitch_prob" toml:"glitch_prob"`
	GhostProb  float64 `json:"ghost_prob" toml:"ghost_prob"`
	MinAlpha   float64 `json:"min_alpha" toml:"min_alpha"`
	MaxAlpha   float64 `json:"max_alpha" toml:"max_alpha"`
}

// Base is the look before any input.
var Base = Params{
	Distortion: 0.7,
	GlitchProb: 0.04,
	GhostProb:  0.40,
	MinAlpha:   185,
	MaxAlpha:   235,
}

// Max is the look at full chaos.
var Max = Params{
	Distortion: 1.2,
	GlitchProb: 0.16,
	GhostProb:  0.9,
	MinAlpha:   130,
	MaxAlpha:   210,
}

// Preset bundles both endpoints and the easing exponent.
type Preset struct {
	Base     Params
	Max      Params
	Exponent float64
}

// DefaultPreset returns Base, Max and an exponent of 1.4.
func DefaultPreset() Preset {
	return Preset{Base: Base, Max: Max, Exponent: DefaultExponent}
}

// Ease applies the power curve to chaos clamped into [0, 1].
func Ease(chaos, exponent float64) float64 {
	c := max(0, min(chaos, 1))
	return math.Pow(c, exponent)
}

// Interpolate returns the parameters for the given running maximum of
// chaos. At 0 it returns p.Base exactly and at 1 p.Max exactly.
func Interpolate(maxChaos float64, p Preset) Params {
	t := Ease(maxChaos, p.Exponent)
	return Params{
		Distortion: lerp(p.Base.Distortion, p.Max.Distortion, t),
		GlitchProb: lerp(p.Base.GlitchProb, p.Max.GlitchProb, t),
		GhostProb:  lerp(p.Base.GhostProb, p.Max.GhostProb, t),
		MinAlpha:   lerp(p.Base.MinAlpha, p.Max.MinAlpha, t),
		MaxAlpha:   lerp(p.Base.MaxAlpha, p.Max.MaxAlpha, t),
	}
}

// lerp is exact at both ends, unlike a + (b-a)*t.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
