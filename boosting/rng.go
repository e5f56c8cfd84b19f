package boosting

import "math/rand/v2"

// RNG is the random source GenerateTermUpdate threads through a round:
// FlagRandomSplits draws split points from it. Using an interface
// rather than *rand.Rand directly lets callers substitute a
// deterministic source in tests, the same way the teacher's
// selectDARTDropIndices takes a seedable source rather than reaching
// for the package-level math/rand functions.
type RNG interface {
	IntN(n int) int
	Float64() float64
}

// NewRNG returns a non-deterministic RNG seeded from the runtime's
// entropy source.
func NewRNG() RNG {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRNG returns a deterministic RNG for reproducible rounds and
// tests.
func NewSeededRNG(seed1, seed2 uint64) RNG {
	return rand.New(rand.NewPCG(seed1, seed2))
}
