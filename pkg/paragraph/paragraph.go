// Package paragraph holds the fixed text that tangent renders and erodes.
//
// A [Paragraph] is an ordered list of manually broken lines. It is built once
// at startup and never mutated; every other structure in the system (the
// threshold table, frames) mirrors its shape.
package paragraph

import (
	"os"
	"strings"

	"github.com/matzehuels/tangent/pkg/errors"
)

// Default is the text rendered when no paragraph file is given. Line breaks
// are manual so the rag is controlled.
var Default = MustParse(`I am trying to express something that shifts
as soon as I approach it.
A thought forms, but when I bring it into language,
it brushes the surface only lightly,
like a tangent that touches a circle
for a moment before veering away.
What I say is never the whole of what I mean.
Every attempt to translate myself
becomes a transformation,
and something essential slips through the gap.
The words arrive altered,
carrying only a trace of the original thought.`)

// Paragraph is an immutable sequence of lines.
type Paragraph struct {
	lines [][]rune
}

// New builds a paragraph from already broken lines.
func New(lines []string) (Paragraph, error) {
	if len(lines) == 0 {
		return Paragraph{}, errors.New(errors.ErrCodeInvalidParagraph, "paragraph has no lines")
	}
	p := Paragraph{lines: make([][]rune, len(lines))}
	for i, l := range lines {
		p.lines[i] = []rune(l)
	}
	return p, nil
}

// Parse splits text on newlines. Trailing carriage returns and trailing
// blank lines are dropped; interior blank lines are kept as empty lines.
func Parse(text string) (Paragraph, error) {
	if err := errors.ValidateParagraphText(text); err != nil {
		return Paragraph{}, err
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return New(lines)
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Paragraph {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Load reads a paragraph from a UTF-8 text file, one line per line.
func Load(path string) (Paragraph, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Paragraph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "paragraph file %s", path)
	}
	if err != nil {
		return Paragraph{}, errors.Wrap(errors.ErrCodeInvalidParagraph, err, "read %s", path)
	}
	return Parse(string(data))
}

// LineCount returns the number of lines.
func (p Paragraph) LineCount() int { return len(p.lines) }

// Line returns the runes of line i. The slice must not be modified.
func (p Paragraph) Line(i int) []rune { return p.lines[i] }

// Len returns the number of runes on line i.
func (p Paragraph) Len(i int) int { return len(p.lines[i]) }

// RuneCount returns the total number of runes.
func (p Paragraph) RuneCount() int {
	n := 0
	for _, l := range p.lines {
		n += len(l)
	}
	return n
}

// Lines returns the paragraph as strings.
func (p Paragraph) Lines() []string {
	out := make([]string, len(p.lines))
	for i, l := range p.lines {
		out[i] = string(l)
	}
	return out
}

// String joins the lines with newlines.
func (p Paragraph) String() string { return strings.Join(p.Lines(), "\n") }

// IsSpace reports whether r keeps its place permanently. Only the ASCII
// space is exempt from erosion.
func IsSpace(r rune) bool { return r == ' ' }
