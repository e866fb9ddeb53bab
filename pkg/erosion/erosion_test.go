package erosion

import (
	"testing"

	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/random"
)

func newDefaultTable(seed uint64) *Table {
	return NewTable(paragraph.Default, random.New(seed), DefaultOptions())
}

func TestTableShape(t *testing.T) {
	table := newDefaultTable(1)
	if !table.Matches(paragraph.Default) {
		t.Fatal("table shape does not mirror the paragraph")
	}
	shape := table.Shape()
	for i, n := range shape {
		if n != paragraph.Default.Len(i) {
			t.Errorf("line %d: %d entries, want %d", i, n, paragraph.Default.Len(i))
		}
	}
	if table.Matches(paragraph.MustParse("short")) {
		t.Error("table should not match a different paragraph")
	}
}

func TestThresholdRanges(t *testing.T) {
	p := paragraph.Default
	table := newDefaultTable(2)
	for i := range p.LineCount() {
		for j, r := range p.Line(i) {
			th := table.Threshold(i, j)
			if paragraph.IsSpace(r) {
				if th <= 1.0 {
					t.Errorf("space at %d,%d has threshold %v, want > 1.0", i, j, th)
				}
				continue
			}
			if th < 0 || th >= DefaultMaxThreshold {
				t.Errorf("char %q at %d,%d has threshold %v, want [0, 0.8)", r, i, j, th)
			}
		}
	}
}

func TestSpacesNeverErode(t *testing.T) {
	p := paragraph.MustParse("a b  c")
	table := NewTable(p, random.New(3), DefaultOptions())
	for _, chaos := range []float64{0, 0.5, 0.8, 1.0} {
		for j, r := range p.Line(0) {
			if paragraph.IsSpace(r) && table.Eroded(0, j, chaos) {
				t.Errorf("space at %d eroded at chaos %v", j, chaos)
			}
		}
	}
}

func TestErodedBoundary(t *testing.T) {
	p := paragraph.MustParse("ab")
	table := NewTable(p, &random.Sequence{Values: []float64{0.5, 0.25}}, DefaultOptions())
	// 0.5*0.8 = 0.4 and 0.25*0.8 = 0.2
	tests := []struct {
		pos   int
		chaos float64
		want  bool
	}{
		{0, 0.39, false},
		{0, 0.4, true},
		{1, 0.2, true},
		{1, 0.19, false},
	}
	for _, tt := range tests {
		if got := table.Eroded(0, tt.pos, tt.chaos); got != tt.want {
			t.Errorf("Eroded(0, %d, %v) = %v, want %v", tt.pos, tt.chaos, got, tt.want)
		}
	}
}

func TestErosionIsMonotone(t *testing.T) {
	p := paragraph.Default
	table := newDefaultTable(4)
	levels := []float64{0, 0.1, 0.25, 0.4, 0.6, 0.79, 0.8, 1}
	for i := range p.LineCount() {
		for j := range p.Len(i) {
			gone := false
			for _, c := range levels {
				e := table.Eroded(i, j, c)
				if gone && !e {
					t.Fatalf("char %d,%d came back at chaos %v", i, j, c)
				}
				gone = e
			}
		}
	}
}

func TestCountEroded(t *testing.T) {
	p := paragraph.Default
	table := newDefaultTable(5)

	if n := table.CountEroded(0); n > 1 {
		// A threshold of exactly 0 is possible but vanishingly rare.
		t.Errorf("CountEroded(0) = %d, want ~0", n)
	}

	spaces := 0
	for i := range p.LineCount() {
		for _, r := range p.Line(i) {
			if paragraph.IsSpace(r) {
				spaces++
			}
		}
	}
	if n, want := table.CountEroded(0.8), p.RuneCount()-spaces; n != want {
		t.Errorf("CountEroded(0.8) = %d, want all %d non-space characters", n, want)
	}
	if n, want := table.CountEroded(1.0), p.RuneCount()-spaces; n != want {
		t.Errorf("CountEroded(1.0) = %d, want %d (spaces survive)", n, want)
	}

	prev := 0
	for _, c := range []float64{0.1, 0.3, 0.5, 0.7} {
		n := table.CountEroded(c)
		if n < prev {
			t.Errorf("CountEroded(%v) = %d decreased from %d", c, n, prev)
		}
		prev = n
	}
}

func TestTableIndependentOfLaterDraws(t *testing.T) {
	src := random.New(9)
	table := NewTable(paragraph.Default, src, DefaultOptions())
	before := table.Threshold(0, 0)
	for range 1000 {
		src.Float64()
	}
	if table.Threshold(0, 0) != before {
		t.Error("thresholds changed after construction")
	}
}
