package core

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// Source is the minimal random source consumed by generators and engines.
// *rand.Rand satisfies it, so callers can pass either a raw PCG stream or an
// RNG wrapper.
type Source interface {
	Float64() float64
	IntN(n int) int
	Int64() int64
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// NewRand returns a seeded *rand.Rand for code that only needs a Source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// IntN returns a value in [0, n). n <= 0 yields 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Int64 returns a non-negative pseudo-random int64.
func (r *RNG) Int64() int64 { return r.r.Int64() }

// Uniform returns a float in [min, max).
func Uniform(src Source, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + src.Float64()*(max-min)
}

// UniformInt returns an int in [min, max). An empty range yields min.
func UniformInt(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.IntN(max-min)
}

// DeriveSeed mixes a salt into a parent seed so independent streams (replicas,
// terrain layers, workers) never share a sequence.
func DeriveSeed(seed int64, salt string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatInt(seed, 10)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(salt))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// DeriveIndexSeed is DeriveSeed for numbered streams.
func DeriveIndexSeed(seed int64, salt string, index int) int64 {
	return DeriveSeed(seed, salt+"#"+strconv.Itoa(index))
}
