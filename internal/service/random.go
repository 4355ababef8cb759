package service

import (
	"math/rand"
	"sync"
	"time"
)

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a RandomSource safe for use by many sessions at once.
// A zero seed picks one from the clock.
func NewRandom(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &lockedRandom{
		rnd: rand.New(rand.NewSource(seed)), //nolint: gosec // game moves, not secrets
	}
}

func (that *lockedRandom) Intn(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Intn(n)
}

func (that *lockedRandom) Float64() float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Float64()
}
