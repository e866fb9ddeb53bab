// Package erosion assigns every character of the paragraph a permanent
// deletion threshold.
//
// A character is eroded once the running maximum of chaos reaches its
// threshold. Thresholds are drawn once when the table is built and never
// change afterwards, so whether a character is gone depends only on the
// highest chaos ever reached, not on the path taken to get there.
package erosion

import (
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/random"
)

const (
	// DefaultMaxThreshold caps non-space thresholds. Once max chaos reaches
	// it, every non-space character is gone.
	DefaultMaxThreshold = 0.8

	// DefaultSpaceSentinel is assigned to spaces. It lies strictly above
	// the largest possible chaos value of 1.0.
	DefaultSpaceSentinel = 1.1
)

// Options holds the threshold policy.
type Options struct {
	MaxThreshold  float64
	SpaceSentinel float64
}

// DefaultOptions returns the stock policy (0.8 cap, 1.1 sentinel).
func DefaultOptions() Options {
	return Options{
		MaxThreshold:  DefaultMaxThreshold,
		SpaceSentinel: DefaultSpaceSentinel,
	}
}

// Table mirrors a paragraph and holds one threshold per character.
type Table struct {
	rows [][]float64
}

// NewTable draws a threshold for every character of p. Spaces receive the
// sentinel; everything else a uniform value in [0, MaxThreshold).
func NewTable(p paragraph.Paragraph, src random.Source, opts Options) *Table {
	t := &Table{rows: make([][]float64, p.LineCount())}
	for i := range t.rows {
		line := p.Line(i)
		row := make([]float64, len(line))
		for j, r := range line {
			if paragraph.IsSpace(r) {
				row[j] = opts.SpaceSentinel
			} else {
				row[j] = random.Range(src, 0, opts.MaxThreshold)
			}
		}
		t.rows[i] = row
	}
	return t
}

// Threshold returns the threshold of the character at line, pos.
func (t *Table) Threshold(line, pos int) float64 {
	return t.rows[line][pos]
}

// Eroded reports whether the character at line, pos is gone for the given
// running maximum of chaos.
func (t *Table) Eroded(line, pos int, maxChaos float64) bool {
	return maxChaos >= t.rows[line][pos]
}

// Shape returns the number of entries per line.
func (t *Table) Shape() []int {
	shape := make([]int, len(t.rows))
	for i, row := range t.rows {
		shape[i] = len(row)
	}
	return shape
}

// Matches reports whether the table has exactly the shape of p.
func (t *Table) Matches(p paragraph.Paragraph) bool {
	if len(t.rows) != p.LineCount() {
		return false
	}
	for i, row := range t.rows {
		if len(row) != p.Len(i) {
			return false
		}
	}
	return true
}

// CountEroded returns how many characters are gone at maxChaos.
func (t *Table) CountEroded(maxChaos float64) int {
	n := 0
	for _, row := range t.rows {
		for _, th := range row {
			if maxChaos >= th {
				n++
			}
		}
	}
	return n
}
