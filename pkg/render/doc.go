// Package render produces one frame of the eroding paragraph.
//
// # Overview
//
// [RenderFrame] is a pure function from the scene state to an ordered list
// of glyph draw commands (a [Frame]). It consumes randomness from a single
// injected [random.Source] and text widths from a [Measurer], and touches
// nothing else. Sinks in the [sink] subpackage turn a frame into SVG, PNG,
// JSON or terminal output, and [Frame.Draw] replays it onto any [Canvas].
//
// # Per-character pipeline
//
// Each line is measured first: spaces advance by the width of " " times
// WordSpacing, every other character by its own width times LetterSpacing.
// The line is centered on the surface, then walked left to right:
//
//  1. If max chaos has reached the character's erosion threshold it is
//     skipped. The cursor still advances, so neighbours keep their place.
//  2. Horizontal and vertical jitter are drawn from [-Jitter, Jitter]
//     scaled by the frame's distortion.
//  3. A non-space character is swapped for a glitch symbol with the
//     frame's glitch probability.
//  4. The glyph is emitted with an alpha drawn from [MinAlpha, MaxAlpha].
//  5. With the ghost probability a second, fainter copy is emitted at an
//     extra offset in [-GhostOffset, GhostOffset] on each axis.
//
// Random values are drawn in exactly that order, so a seeded source
// reproduces a frame bit for bit.
//
// Whitespace glyphs take part in the random sequence but are not emitted,
// since drawing a space leaves no mark.
//
// [sink]: github.com/matzehuels/tangent/pkg/render/sink
package render
