package pvp

import (
	"math/rand"
	"sync"
)

// Source yields uniform draws in [0,100).
type Source interface {
	Draw() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSource wraps r for concurrent use. rand.Rand itself is not goroutine safe.
func NewSource(r *rand.Rand) Source {
	return &lockedRand{r: r}
}

func (s *lockedRand) Draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64() * 100
}
