// Package random provides the single injectable randomness source shared by
// threshold generation and frame rendering.
//
// Every random decision in tangent flows through a [Source]. Production code
// uses a PCG generator from [New]; tests substitute a seeded generator or a
// scripted [Sequence] to pin individual decisions.
package random

import (
	"math/rand/v2"
	"time"
)

// Source yields uniform floats in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// New returns a PCG generator for seed. The stream is fully determined by
// the seed, so equal seeds reproduce equal frames.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// NewSeed returns a seed derived from the wall clock, for interactive
// sessions where reproducibility is not wanted.
func NewSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Range returns a uniform value in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance reports whether a uniform roll lands below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](src Source, items []T) T {
	i := int(src.Float64() * float64(len(items)))
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}

// Sequence replays a fixed list of values, cycling when exhausted.
// It is meant for tests that need to steer specific decisions.
type Sequence struct {
	Values []float64
	next   int
}

// Float64 returns the next scripted value, or 0 if none were given.
func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// Draws returns how many values have been consumed so far.
func (s *Sequence) Draws() int { return s.next }

// Constant always returns the same value.
type Constant float64

// Float64 implements Source.
func (c Constant) Float64() float64 { return float64(c) }
