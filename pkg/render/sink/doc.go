// Package sink provides output format renderers for frames.
//
// # Overview
//
// A "sink" transforms a computed [render.Frame] into a final output format.
// This package provides renderers for:
//
//   - SVG: one <text> element per glyph, with the font embedded
//   - PNG: raster output drawn with fogleman/gg
//   - JSON: the frame's draw commands for external tools
//   - ANSI: a terminal cell grid with per-cell ink colors
//
// # SVG Output
//
//	svg := sink.RenderSVG(frame, sink.WithPalette(sink.DefaultPalette))
//
// # PNG Output
//
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//
// # Terminal Output
//
// The terminal has no sub-cell positioning, so [Grid] quantizes glyph
// coordinates into cells of [CellWidth] by [CellHeight] virtual pixels. A
// scene meant for the terminal measures with [CellMeasurer] so every rune
// advances by one cell before spacing is applied.
//
//	grid := sink.NewGrid(cols, rows)
//	frame.Draw(grid)
//	fmt.Println(grid.Render(sink.DefaultPalette))
package sink
