package app

import (
	"sync"
	"time"
)

const resultsKept = 50

// Result is one finished match or shootout.
type Result struct {
	Kind            string    `json:"kind"` // "pvp" or "shootout"
	ID              string    `json:"id"`
	ChatID          string    `json:"chat_id"`
	Challenger      string    `json:"challenger"`
	Opponent        string    `json:"opponent"`
	ChallengerGoals int       `json:"challenger_goals"`
	OpponentGoals   int       `json:"opponent_goals"`
	WinnerID        string    `json:"winner_id,omitempty"`
	At              time.Time `json:"at"`
}

// Results keeps the most recent finished games in memory.
type Results struct {
	mu   sync.RWMutex
	ring []Result
	next int
	full bool
}

func NewResults() *Results {
	return &Results{ring: make([]Result, resultsKept)}
}

func (r *Results) Add(res Result) {
	r.mu.Lock()
	r.ring[r.next] = res
	r.next = (r.next + 1) % len(r.ring)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// Recent returns the kept results, newest first.
func (r *Results) Recent() []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := r.next
	if r.full {
		n = len(r.ring)
	}
	out := make([]Result, 0, n)
	for k := 1; k <= n; k++ {
		out = append(out, r.ring[(r.next-k+len(r.ring))%len(r.ring)])
	}
	return out
}
