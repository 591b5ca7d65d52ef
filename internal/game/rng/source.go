// Package rng provides the randomness abstraction used by breeding.
package rng

import (
	"crypto/rand"
	mrand "math/rand/v2"
)

// Source is the randomness provider for breeding outcomes.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Bool draws a fair coin flip from src.
func Bool(src Source) bool {
	return src.Intn(2) == 0
}

// randSource adapts a math/rand/v2 generator to Source.
type randSource struct {
	r *mrand.Rand
}

// NewCryptoSource returns an unpredictable Source: a ChaCha8 stream keyed from
// crypto/rand. Breeds drawn from it cannot be replayed.
func NewCryptoSource() Source {
	var key [32]byte
	_, _ = rand.Read(key[:])
	return &randSource{r: mrand.New(mrand.NewChaCha8(key))}
}

// NewSeededSource returns a deterministic PCG Source; equal seeds yield equal
// breeding outcomes.
func NewSeededSource(seed uint64) Source {
	return &randSource{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn panics when n <= 0, like math/rand.
func (s *randSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return s.r.IntN(n)
}

// FixedSource replays a scripted sequence of values, wrapping around at the end.
// Each value is reduced modulo n.
type FixedSource struct {
	values []int
	next   int
}

// Fixed returns a FixedSource over values.
//
// Precondition: len(values) > 0.
func Fixed(values ...int) *FixedSource {
	if len(values) == 0 {
		panic("rng: Fixed requires at least one value")
	}
	return &FixedSource{values: values}
}

// Intn returns the next scripted value modulo n.
func (f *FixedSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns how many values have been drawn.
func (f *FixedSource) Calls() int {
	return f.next
}
