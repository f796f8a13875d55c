package scheduler

import (
	"math/rand"
	"time"
)

// Rand is the injectable randomness source used to break ties among
// equally ranked candidates without systematic bias.  *math/rand.Rand
// satisfies it; tests inject a fixed seed to make runs reproducible.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded random source.  A zero seed selects a
// time-based seed, which is the production default; any other value pins
// the sequence for reproducible runs.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
