// Package squad models a side's 11-slot lineup and the ratings derived from it.
package squad

import (
	"context"
	"fmt"
	"sync"
)

// Store is the persistence a Squad needs.
type Store interface {
	LoadSquad(ctx context.Context, ownerID string) (map[Position]*Player, error)
	PersistSlot(ctx context.Context, ownerID string, pos Position, p *Player) error
}

// Squad is the authoritative lineup of one owner. Safe for concurrent use;
// simulations should read a Snapshot once per round.
type Squad struct {
	owner string
	store Store // nil for AI squads

	mu     sync.RWMutex
	lineup Lineup
}

// NewAISquad builds an unpersisted squad from a template. Entries that
// don't fit their slot are dropped.
func NewAISquad(slots map[Position]*Player) *Squad {
	l, _ := buildLineup(slots)
	return &Squad{owner: AIOwner, lineup: l}
}

func (s *Squad) Owner() string { return s.owner }

// Slot returns the current occupant of pos, or nil.
func (s *Squad) Slot(pos Position) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lineup.Get(pos)
}

// SetSlot assigns p (nil clears) to pos and persists the change. Nothing
// changes in memory unless the store accepted the write.
func (s *Squad) SetSlot(ctx context.Context, pos Position, p *Player) error {
	i := pos.index()
	if i < 0 {
		return ErrUnknownPosition
	}
	if p != nil && !pos.Accepts(p.Class) {
		return ErrInvalidAssignment
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p != nil {
		for j, q := range s.lineup {
			if j != i && q != nil && q.ID == p.ID {
				return ErrAlreadyInSquad
			}
		}
	}
	if s.store != nil {
		if err := s.store.PersistSlot(ctx, s.owner, pos, p); err != nil {
			return fmt.Errorf("persist slot %s: %w", pos, err)
		}
	}
	s.lineup[i] = p
	return nil
}

// Snapshot returns a copy of the slots.
func (s *Squad) Snapshot() Lineup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lineup
}

func (s *Squad) TotalRating() int { return s.Snapshot().TotalRating() }
func (s *Squad) AttackScore() float64 { return s.Snapshot().AttackScore() }
func (s *Squad) DefenseScore() float64 { return s.Snapshot().DefenseScore() }
func (s *Squad) Chemistry() float64 { return s.Snapshot().Chemistry() }
func (s *Squad) ChemistryDescription() string { return s.Snapshot().ChemistryDescription() }
