package squad

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache keeps one Squad per owner for the life of the process.
type Cache struct {
	store Store
	log   *zap.Logger

	mu     sync.RWMutex
	squads map[string]*Squad
	group  singleflight.Group
}

func NewCache(store Store, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		store:  store,
		log:    log.Named("squad"),
		squads: make(map[string]*Squad),
	}
}

// Get returns the owner's squad, loading it on first access. Concurrent
// first calls for the same owner share a single load.
func (c *Cache) Get(ctx context.Context, ownerID string) (*Squad, error) {
	c.mu.RLock()
	s, ok := c.squads[ownerID]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := c.group.Do(ownerID, func() (any, error) {
		c.mu.RLock()
		s, ok := c.squads[ownerID]
		c.mu.RUnlock()
		if ok {
			return s, nil
		}

		s, err := c.load(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.squads[ownerID] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Squad), nil
}

func (c *Cache) load(ctx context.Context, ownerID string) (*Squad, error) {
	slots, err := c.store.LoadSquad(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load squad %s: %w", ownerID, err)
	}
	l, rejected := buildLineup(slots)
	for _, pos := range rejected {
		c.log.Warn("clearing invalid slot",
			zap.String("owner", ownerID), zap.String("position", string(pos)))
		if err := c.store.PersistSlot(ctx, ownerID, pos, nil); err != nil {
			c.log.Error("clear slot", zap.String("owner", ownerID), zap.Error(err))
		}
	}
	return &Squad{owner: ownerID, store: c.store, lineup: l}, nil
}

// Len reports how many squads are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.squads)
}
