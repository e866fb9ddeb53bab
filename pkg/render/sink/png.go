package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/tangent/pkg/errors"
	"github.com/matzehuels/tangent/pkg/fonts"
	"github.com/matzehuels/tangent/pkg/render"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	palette Palette
	scale   float64
	faces   map[float64]font.Face
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGPalette sets the ink and paper colors.
func WithPNGPalette(p Palette) PNGOption { return func(r *pngRenderer) { r.palette = p } }

// RenderPNG rasterizes the frame. Glyph faces are built at the scaled size
// instead of scaling the canvas, so text stays crisp at any scale.
func RenderPNG(f render.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{palette: DefaultPalette, scale: 2.0, faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	defer r.close()

	if err := errors.ValidateRaster(f.Width, f.Height, r.scale); err != nil {
		return nil, err
	}
	w := int(math.Ceil(f.Width * r.scale))
	h := int(math.Ceil(f.Height * r.scale))

	ink, paper := r.palette.colors()
	dc := gg.NewContext(w, h)
	dc.SetRGB(paper.R, paper.G, paper.B)
	dc.Clear()

	for _, g := range f.Glyphs {
		face, err := r.face(g.Size * r.scale)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font face")
		}
		dc.SetFontFace(face)
		dc.SetRGBA(ink.R, ink.G, ink.B, g.Alpha/255)
		dc.DrawString(string(g.Rune), g.X*r.scale, g.Y*r.scale)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) face(size float64) (font.Face, error) {
	if face, ok := r.faces[size]; ok {
		return face, nil
	}
	face, err := fonts.Face(size)
	if err != nil {
		return nil, err
	}
	r.faces[size] = face
	return face, nil
}

func (r *pngRenderer) close() {
	for _, face := range r.faces {
		face.Close()
	}
}
