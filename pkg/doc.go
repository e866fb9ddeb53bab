// Package pkg provides the core libraries for tangent, a paragraph renderer
// that erodes as its reader types.
//
// # Overview
//
// A fixed paragraph is drawn centered on a surface. Every input event sets a
// chaos level from the length of the input; the highest level ever reached
// decides which characters are gone for good and how strongly the survivors
// jitter, glitch and ghost. The packages are organized as follows:
//
//  1. Core: [paragraph], [random], [layout], [erosion], [chaos], [visual]
//     and [render] compute frames from state
//  2. Events: [scene] dispatches input and resize events to the core
//  3. Outputs: [render/sink] encodes frames as SVG, PNG, JSON or terminal text
//  4. Orchestration: [pipeline] replays input sequences with caching
//  5. Infrastructure: [cache], [config], [errors], [observability],
//     [httputil], [fonts] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	input lengths
//	     ↓
//	[scene]: chaos.OnInputChanged → layout.Compute → render.RenderFrame
//	     ↓
//	render.Frame (glyph draw commands)
//	     ↓
//	[render/sink]: SVG, PNG, JSON, ANSI
//
// # Determinism
//
// Every random draw goes through a single seeded source owned by the scene.
// The same paragraph, seed, surface and input sequence always yield the same
// frames, which is what lets [pipeline] cache encoded artifacts.
//
// [paragraph]: github.com/matzehuels/tangent/pkg/paragraph
// [random]: github.com/matzehuels/tangent/pkg/random
// [layout]: github.com/matzehuels/tangent/pkg/layout
// [erosion]: github.com/matzehuels/tangent/pkg/erosion
// [chaos]: github.com/matzehuels/tangent/pkg/chaos
// [visual]: github.com/matzehuels/tangent/pkg/visual
// [render]: github.com/matzehuels/tangent/pkg/render
// [scene]: github.com/matzehuels/tangent/pkg/scene
// [render/sink]: github.com/matzehuels/tangent/pkg/render/sink
// [pipeline]: github.com/matzehuels/tangent/pkg/pipeline
// [cache]: github.com/matzehuels/tangent/pkg/cache
// [config]: github.com/matzehuels/tangent/pkg/config
// [errors]: github.com/matzehuels/tangent/pkg/errors
// [observability]: github.com/matzehuels/tangent/pkg/observability
// [httputil]: github.com/matzehuels/tangent/pkg/httputil
// [fonts]: github.com/matzehuels/tangent/pkg/fonts
// [buildinfo]: github.com/matzehuels/tangent/pkg/buildinfo
package pkg
