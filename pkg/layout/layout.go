// Package layout fits the paragraph block into the drawing surface.
//
// The block is laid out at a baseline type size and line height. When it
// would be taller than FitRatio of the surface, both sizes shrink by the
// same factor. The block is then centered vertically.
package layout

const (
	// DefaultBaseTypeSize is the type size before any fitting.
	DefaultBaseTypeSize = 60.0

	// DefaultBaseLineHeight is the line height before any fitting.
	DefaultBaseLineHeight = 80.0

	// DefaultFitRatio is the share of the surface height the block may use.
	DefaultFitRatio = 0.8
)

// Options holds the fixed layout constants.
type Options struct {
	BaseTypeSize   float64
	BaseLineHeight float64
	FitRatio       float64
}

// DefaultOptions returns the stock constants (60, 80, 0.8).
func DefaultOptions() Options {
	return Options{
		BaseTypeSize:   DefaultBaseTypeSize,
		BaseLineHeight: DefaultBaseLineHeight,
		FitRatio:       DefaultFitRatio,
	}
}

// Metrics is the layout derived from the surface size.
type Metrics struct {
	TypeSize   float64 `json:"type_size"`
	LineHeight float64 `json:"line_height"`
	BaseY      float64 `json:"base_y"`
	Scale      float64 `json:"scale"`
}

// Compute derives the metrics for lineCount lines on a surface of the given
// height. It never fails; a tiny or empty surface yields tiny or negative
// sizes, which simply draw nothing useful.
func Compute(lineCount int, surfaceHeight float64, opts Options) Metrics {
	m := Metrics{
		TypeSize:   opts.BaseTypeSize,
		LineHeight: opts.BaseLineHeight,
		Scale:      1,
	}

	total := float64(lineCount) * m.LineHeight
	allowed := surfaceHeight * opts.FitRatio
	if total > allowed && total > 0 {
		m.Scale = allowed / total
		m.TypeSize = opts.BaseTypeSize * m.Scale
		m.LineHeight = opts.BaseLineHeight * m.Scale
		total = float64(lineCount) * m.LineHeight
	}

	m.BaseY = (surfaceHeight-total)/2 + m.LineHeight
	return m
}

// LineY returns the baseline of line i.
func (m Metrics) LineY(i int) float64 {
	return m.BaseY + float64(i)*m.LineHeight
}

// CenterX returns the left edge that centers a line of width lineWidth on a
// surface of width surfaceWidth.
func CenterX(surfaceWidth, lineWidth float64) float64 {
	return surfaceWidth/2 - lineWidth/2
}
