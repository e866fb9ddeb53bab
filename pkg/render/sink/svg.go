package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tangent/pkg/fonts"
	"github.com/matzehuels/tangent/pkg/render"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette   Palette
	embedFont bool
}

// WithPalette sets the ink and paper colors.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithoutFontEmbed leaves the font out of the document. The output is much
// smaller but depends on the viewer having a matching font installed.
func WithoutFontEmbed() SVGOption { return func(r *svgRenderer) { r.embedFont = false } }

// RenderSVG renders the frame as a standalone SVG document. The paper is a
// full-size rectangle; every glyph is a <text> element whose fill-opacity
// carries its alpha. Ghost glyphs get the class "ghost".
func RenderSVG(f render.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{palette: DefaultPalette, embedFont: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)

	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.palette.Paper))

	fmt.Fprintf(&buf, `  <g fill="%s">`+"\n", escapeXML(r.palette.Ink))
	for _, g := range f.Glyphs {
		renderGlyph(&buf, g)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n    <style>\n")
	if r.embedFont {
		fmt.Fprintf(buf, "      @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.GoRegularBase64())
	}
	fmt.Fprintf(buf, "      text { font-family: %s; white-space: pre; }\n", fonts.FallbackFontFamily)
	buf.WriteString("    </style>\n  </defs>\n")
}

func renderGlyph(buf *bytes.Buffer, g render.Glyph) {
	class := ""
	if g.Ghost {
		class = ` class="ghost"`
	}
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.2f" fill-opacity="%.3f"%s>%s</text>`+"\n",
		g.X, g.Y, g.Size, g.Alpha/255, class, escapeXML(string(g.Rune)))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
