package errors

import (
	"math"
	"strings"
	"unicode"
)

const (
	// MaxParagraphRunes bounds the size of a paragraph so a render pass stays
	// a short, bounded loop.
	MaxParagraphRunes = 20000

	// MaxDimension bounds surface width and height in pixels.
	MaxDimension = 16384.0

	// MaxInputEvents bounds the length of a replayed input history.
	MaxInputEvents = 4096

	// MaxRasterPixels bounds the pixel count of a rasterized frame.
	MaxRasterPixels = 64 << 20
)

// ValidateParagraphText checks paragraph text before it is split into lines.
//
// The rules:
//   - at least one non-whitespace character
//   - at most MaxParagraphRunes runes
//   - no control characters other than newline, carriage return and tab
func ValidateParagraphText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidParagraph, "paragraph cannot be empty")
	}

	n := 0
	for _, r := range text {
		n++
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidParagraph, "paragraph contains control character %U", r)
		}
	}
	if n > MaxParagraphRunes {
		return New(ErrCodeInvalidParagraph, "paragraph too long (%d runes, max %d)", n, MaxParagraphRunes)
	}
	return nil
}

// ValidateDimensions checks a drawing surface size.
// Both sides must be finite, positive and at most MaxDimension.
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v <= 0 {
			return New(ErrCodeInvalidSize, "%s must be a positive number, got %v", d.name, d.v)
		}
		if d.v > MaxDimension {
			return New(ErrCodeInvalidSize, "%s too large (%v, max %v)", d.name, d.v, MaxDimension)
		}
	}
	return nil
}

// ValidateRaster checks the pixel size of a surface rasterized at scale.
// The scale must be finite and positive, each scaled side at most
// MaxDimension, and the total at most MaxRasterPixels.
func ValidateRaster(width, height, scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidSize, "scale must be a positive number, got %v", scale)
	}
	w, h := math.Ceil(width*scale), math.Ceil(height*scale)
	if err := ValidateDimensions(w, h); err != nil {
		return Wrap(ErrCodeInvalidSize, err, "raster %vx%v at scale %v", width, height, scale)
	}
	if w*h > MaxRasterPixels {
		return New(ErrCodeInvalidSize, "raster too large (%vx%v pixels, max %d)", w, h, MaxRasterPixels)
	}
	return nil
}

// ValidateInputLengths checks a replayed history of input lengths.
// Negative lengths are allowed; the chaos controller clamps them to zero.
func ValidateInputLengths(lengths []int) error {
	if len(lengths) > MaxInputEvents {
		return New(ErrCodeInvalidInput, "too many input events (%d, max %d)", len(lengths), MaxInputEvents)
	}
	return nil
}
