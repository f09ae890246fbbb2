package behavior

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness the machine consumes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG generator; a zero seed is replaced by the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
