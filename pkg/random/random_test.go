package random

import "testing"

func TestNewDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := range 100 {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d: %v != %v", i, x, y)
		}
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name   string
		roll   float64
		lo, hi float64
		want   float64
	}{
		{"low end", 0, -1.2, 1.2, -1.2},
		{"midpoint", 0.5, -2, 2, 0},
		{"alpha band", 0.25, 60, 140, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Range(Constant(tt.roll), tt.lo, tt.hi); got != tt.want {
				t.Errorf("Range() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRangeBounds(t *testing.T) {
	src := New(7)
	for range 10000 {
		v := Range(src, 0, 0.8)
		if v < 0 || v >= 0.8 {
			t.Fatalf("Range out of bounds: %v", v)
		}
	}
}

func TestPick(t *testing.T) {
	items := []string{"/", "|", "·", "—"}
	tests := []struct {
		roll float64
		want string
	}{
		{0, "/"},
		{0.26, "|"},
		{0.5, "·"},
		{0.99, "—"},
		{1, "—"},
	}
	for _, tt := range tests {
		if got := Pick(Constant(tt.roll), items); got != tt.want {
			t.Errorf("Pick(%v) = %q, want %q", tt.roll, got, tt.want)
		}
	}
}

func TestChance(t *testing.T) {
	if Chance(Constant(0.5), 0.5) {
		t.Error("roll equal to p should miss")
	}
	if !Chance(Constant(0.49), 0.5) {
		t.Error("roll below p should hit")
	}
	if Chance(Constant(0), 0) {
		t.Error("zero probability should never hit")
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Values: []float64{0.1, 0.2}}
	got := []float64{s.Float64(), s.Float64(), s.Float64()}
	want := []float64{0.1, 0.2, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d = %v, want %v", i, got[i], want[i])
		}
	}
	if s.Draws() != 3 {
		t.Errorf("Draws() = %d, want 3", s.Draws())
	}
	if (&Sequence{}).Float64() != 0 {
		t.Error("empty sequence should return 0")
	}
}
