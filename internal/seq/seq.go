// Package seq provides reproducible pseudo-random streams keyed by an
// integer seed. Every generator in the simulation derives its randomness
// from here, so the same seed always reproduces the same community.
package seq

import "math"

// zeroSeedReplacement stands in for a zero state, which would make the
// xorshift generator emit zeros forever.
const zeroSeedReplacement uint32 = 0x9E3779B9

// Purpose salts. Each semantic purpose gets its own derived stream so
// that, for example, adding a draw to actor generation cannot shift the
// message stream.
const (
	SaltActors   uint32 = 0x41C64E6D
	SaltMessages uint32 = 0x2545F491
	SaltTyping   uint32 = 0x6C078965
	SaltTicks    uint32 = 0xB5297A4D
)

// indexStride spreads consecutive indices across the seed space
// (Knuth's multiplicative hash constant).
const indexStride uint32 = 2654435761

// Source is an immutable seed from which independent streams are derived.
type Source struct {
	base uint32
}

// NewSource creates a Source for the given base seed.
func NewSource(seed uint32) Source {
	return Source{base: seed}
}

// Seed returns the base seed.
func (s Source) Seed() uint32 {
	return s.base
}

// Derive returns a fresh stream for the given salt. The same
// (seed, salt) pair always yields the same stream.
func (s Source) Derive(salt uint32) *Stream {
	state := s.base ^ salt
	if state == 0 {
		state = zeroSeedReplacement
	}
	return &Stream{state: state}
}

// DeriveIndexed returns the stream for one absolute index under a
// purpose salt. Used for per-message and per-actor generation.
func (s Source) DeriveIndexed(salt uint32, index int) *Stream {
	return s.Derive(salt ^ uint32(index)*indexStride)
}

// Stream is a 32-bit xorshift generator. Not safe for concurrent use;
// derive one stream per goroutine or per generation call.
type Stream struct {
	state uint32
}

// Uint32 advances the stream and returns the raw state.
func (st *Stream) Uint32() uint32 {
	x := st.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	st.state = x
	return x
}

// Float returns the next value in [0, 1).
func (st *Stream) Float() float64 {
	return float64(st.Uint32()) / float64(math.MaxUint32+1.0)
}

// Intn returns a value in [0, n). n must be positive.
func (st *Stream) Intn(n int) int {
	return int(st.Float() * float64(n))
}

// Between returns a value in [lo, hi).
func (st *Stream) Between(lo, hi float64) float64 {
	return lo + st.Float()*(hi-lo)
}

// Chance reports whether an event with probability p occurred.
func (st *Stream) Chance(p float64) bool {
	return st.Float() < p
}

// Jitter returns a multiplier in [1-spread, 1+spread].
func (st *Stream) Jitter(spread float64) float64 {
	return 1 + (st.Float()*2-1)*spread
}

// Pick returns one element of items chosen uniformly.
func Pick[T any](st *Stream, items []T) T {
	return items[st.Intn(len(items))]
}

// PickWeighted returns the index selected by the given weights. Weights
// need not sum to one; zero or negative totals fall back to index 0.
func PickWeighted(st *Stream, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	target := st.Float() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if target < w {
			return i
		}
		target -= w
	}
	return len(weights) - 1
}
