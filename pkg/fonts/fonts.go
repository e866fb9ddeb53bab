// Package fonts provides the embedded typeface used for measuring and
// drawing glyphs.
//
// The Go Regular font ships with golang.org/x/image, so it is compiled into
// the binary without external files. The same font drives text measurement,
// PNG rasterization and the @font-face embedded in SVG output, so measured
// line widths match what a viewer draws.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers that ignore @font-face.
const FallbackFontFamily = `'Go', Georgia, 'Times New Roman', serif`

// GoRegularTTF returns the TTF font data.
func GoRegularTTF() []byte {
	return goregular.TTF
}

// Cache for the parsed font and its base64 form (computed once on first access).
var (
	parsed     *opentype.Font
	parseErr   error
	parseOnce  sync.Once
	ttfBase64  string
	base64Once sync.Once
)

// GoRegularBase64 returns the TTF data as a base64 string.
// The result is cached after first computation.
func GoRegularBase64() string {
	base64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// Font returns the parsed Go Regular font.
func Font() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a new face at size pixels (72 DPI, so points equal pixels).
// Faces are not safe for concurrent use; create one per goroutine.
func Face(size float64) (font.Face, error) {
	f, err := Font()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Measurer measures advance widths with the embedded font. It keeps one
// face per type size and is not safe for concurrent use.
type Measurer struct {
	faces map[float64]font.Face
}

// NewMeasurer returns an empty measurer; faces are created on demand.
func NewMeasurer() *Measurer {
	return &Measurer{faces: make(map[float64]font.Face)}
}

// Advance returns the width of s at size pixels. Non-positive sizes measure
// as zero, as does any string the font cannot be loaded for.
func (m *Measurer) Advance(s string, size float64) float64 {
	if size <= 0 {
		return 0
	}
	face, ok := m.faces[size]
	if !ok {
		var err error
		face, err = Face(size)
		if err != nil {
			return 0
		}
		m.faces[size] = face
	}
	return float64(font.MeasureString(face, s)) / 64
}

// Close releases all cached faces.
func (m *Measurer) Close() error {
	for size, face := range m.faces {
		face.Close()
		delete(m.faces, size)
	}
	return nil
}
