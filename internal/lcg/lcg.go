// Package lcg provides a small deterministic linear congruential generator.
//
// Layout components use it only to jitter degenerate cases such as two nodes
// sharing a coordinate, so runs with the same input are reproducible.
package lcg

import "math/rand"

const (
	multiplier = 1664525
	increment  = 1013904223
)

// Source is a 32-bit LCG. It satisfies rand.Source64, so it can back a
// *rand.Rand when a richer API is needed.
type Source struct {
	state uint32
}

var _ rand.Source64 = (*Source)(nil)

func New() *Source {
	return &Source{state: 1}
}

func NewSeeded(seed int64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

func (s *Source) next() uint32 {
	s.state = s.state*multiplier + increment
	return s.state
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.next()) / (1 << 32)
}

// Jitter returns a tiny offset in (-5e-7, 5e-7) used to separate coincident points.
func (s *Source) Jitter() float64 {
	return (s.Float64() - 0.5) * 1e-6
}

func (s *Source) Seed(seed int64) {
	s.state = uint32(seed)
}

func (s *Source) Uint64() uint64 {
	return uint64(s.next())<<32 | uint64(s.next())
}

func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}
