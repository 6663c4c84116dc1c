// Package rng provides a small seedable pseudo-random source whose output
// depends only on the seed and the order of calls. It never consults the
// clock or the global math/rand state, so a seed produces the same stream on
// every platform.
package rng

// golden is the Weyl increment added to the state on every step.
const golden uint32 = 0x6D2B79F5

// Source is a mulberry32 generator over a 32-bit state. A Source is not safe
// for concurrent use; give each goroutine its own.
type Source struct {
	state uint32
}

// New returns a Source seeded with the low 32 bits of seed. Negative seeds
// and zero are valid.
func New(seed int64) *Source {
	return &Source{state: uint32(seed)}
}

// Uint32 advances the generator and returns the next 32-bit output.
func (s *Source) Uint32() uint32 {
	s.state += golden
	t := s.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

// Float64 returns a value in [0, 1) built from one 32-bit output.
func (s *Source) Float64() float64 {
	return float64(s.Uint32()) / 4294967296.0
}

// Range returns a value in [min, max). The product is rounded on its own
// before the add so no platform fuses the two into one instruction.
func (s *Source) Range(min, max float64) float64 {
	return float64(s.Float64()*(max-min)) + min
}

// IntRange returns floor(Range(min, max)), an integer in [min, max).
func (s *Source) IntRange(min, max int) int {
	return min + int(s.Float64()*float64(max-min))
}

// Index returns an index in [0, n). It panics if n <= 0.
func (s *Source) Index(n int) int {
	if n <= 0 {
		panic("rng: Index called with non-positive n")
	}
	return int(s.Float64() * float64(n))
}
