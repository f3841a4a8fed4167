package app

import (
	"sync"
	"time"
)

// Gateway reconnects can redeliver the same interaction.
const dedupeTTL = 30 * time.Second

type dedupe struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func newDedupe(ttl time.Duration) *dedupe {
	return &dedupe{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

// recentlyHandled reports whether key was seen within the ttl and marks it seen.
func (d *dedupe) recentlyHandled(key string) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.seen[key]; ok && now.Sub(t) < d.ttl {
		return true
	}
	d.seen[key] = now
	if len(d.seen) > 256 {
		for k, t := range d.seen {
			if now.Sub(t) >= d.ttl {
				delete(d.seen, k)
			}
		}
	}
	return false
}
