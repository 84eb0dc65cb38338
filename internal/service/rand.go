package service

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the source of the bot's tie-breaks.
type Rand interface {
	IntN(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand returns a source seeded with seed. A zero seed uses the current time.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &lockedRand{rnd: rand.New(rand.NewPCG(seed, seed>>32|1))}
}

func (that *lockedRand) IntN(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.IntN(n)
}
