package snake

import "math/rand"

// RNG is the randomness source consumed by food placement and kind
// selection. *rand.Rand satisfies it; tests substitute scripted sources.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// NewRNG returns a seeded source. Equal seeds produce equal games given the
// same input sequence.
func NewRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}
