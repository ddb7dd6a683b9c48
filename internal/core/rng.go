package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// seeding, so the stress growth controller can reproduce a run byte-for-byte
// given the same seed.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float32n returns a random float32 in [0, n).
func (r *RNG) Float32n(n float32) float32 {
	return float32(r.r.Float64()) * n
}

// Float32Range returns a random float32 in [lo, hi).
func (r *RNG) Float32Range(lo, hi float32) float32 {
	return lo + r.Float32n(hi-lo)
}

// Uint16n returns a random uint16 in [0, n).
func (r *RNG) Uint16n(n uint16) uint16 {
	if n == 0 {
		return 0
	}
	return uint16(r.r.IntN(int(n)))
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
