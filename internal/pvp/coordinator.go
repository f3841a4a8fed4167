// Package pvp runs multi-round squad-vs-squad matches, one per chat.
//
// Every transition for a chat happens under that chat's lock. A round reads
// squad snapshots, rolls both attempts, waits the pacing delay with the lock
// released, then commits the score under the lock again.
package pvp

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jose-valero/pitchduel-bot/internal/keylock"
	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

const (
	MaxRounds   = 5
	GoalCap     = 10
	WinPoints   = 100
	WinCurrency = 50
	DrawPoints  = 50
)

// Store is the persistence the coordinator needs.
type Store interface {
	LoadUser(ctx context.Context, userID string) (ports.User, error)
	LoadAISquad(ctx context.Context, difficulty string) (map[squad.Position]*squad.Player, error)
	CreditPoints(ctx context.Context, userID string, amount int) error
	CreditCurrency(ctx context.Context, userID string, amount int) error
}

// Squads resolves a user's lineup. *squad.Cache satisfies it.
type Squads interface {
	Get(ctx context.Context, ownerID string) (*squad.Squad, error)
}

type Config struct {
	ChallengeTimeout time.Duration
	RoundDelay       time.Duration
}

func DefaultConfig() Config {
	return Config{ChallengeTimeout: 60 * time.Second, RoundDelay: time.Second}
}

type Coordinator struct {
	cfg    Config
	store  Store
	squads Squads
	msg    ports.Messenger
	src    Source
	log    *zap.Logger
	now    func() time.Time

	locks keylock.Map // per chat, serializes transitions

	// mu guards the map and the fields View exposes.
	mu      sync.RWMutex
	matches map[string]*match // chat id -> match
}

// New builds a coordinator. A nil src draws from a time-seeded generator.
func New(cfg Config, store Store, squads Squads, msg ports.Messenger, src Source, log *zap.Logger) *Coordinator {
	if src == nil {
		src = NewSource(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		cfg:     cfg,
		store:   store,
		squads:  squads,
		msg:     msg,
		src:     src,
		log:     log.Named("pvp"),
		now:     time.Now,
		matches: make(map[string]*match),
	}
}

func (c *Coordinator) get(chatID string) *match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matches[chatID]
}

func (c *Coordinator) put(chatID string, m *match) {
	c.mu.Lock()
	c.matches[chatID] = m
	c.mu.Unlock()
}

// remove drops m only if it is still the chat's current match.
func (c *Coordinator) remove(chatID string, m *match) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.matches[chatID] != m {
		return false
	}
	delete(c.matches, chatID)
	if m.timer != nil {
		m.timer.Stop()
	}
	return true
}

func (c *Coordinator) resolveUser(ctx context.Context, userID string) (ports.User, error) {
	u, err := c.store.LoadUser(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return ports.User{}, ErrUnknownUser
	}
	if err != nil {
		return ports.User{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	return u, nil
}

// IssueChallenge opens a pending match and posts accept/decline buttons.
// The challenge expires after Config.ChallengeTimeout.
func (c *Coordinator) IssueChallenge(ctx context.Context, chatID, challengerID, opponentID string) (View, error) {
	if challengerID == opponentID {
		return View{}, ErrSelfChallenge
	}
	v, ch, op, err := c.openChallenge(ctx, chatID, challengerID, opponentID)
	if err != nil {
		return View{}, err
	}
	// best effort, outside the chat lock
	if err := c.msg.NotifyUser(ctx, op.ID, fmt.Sprintf("⚔️ %s challenged you to a PvP match. Answer in the channel.", ch.Username)); err != nil {
		c.log.Debug("notify opponent", zap.String("user", op.ID), zap.Error(err))
	}
	return v, nil
}

func (c *Coordinator) openChallenge(ctx context.Context, chatID, challengerID, opponentID string) (View, ports.User, ports.User, error) {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	if c.get(chatID) != nil {
		return View{}, ports.User{}, ports.User{}, ErrMatchInProgress
	}
	ch, err := c.resolveUser(ctx, challengerID)
	if err != nil {
		return View{}, ports.User{}, ports.User{}, err
	}
	op, err := c.resolveUser(ctx, opponentID)
	if err != nil {
		return View{}, ports.User{}, ports.User{}, err
	}

	m := &match{
		id:         uuid.NewString(),
		chatID:     chatID,
		challenger: side{id: ch.ID, name: ch.Username},
		opponent:   side{id: op.ID, name: op.Username},
		state:      stateChallenged,
		createdAt:  c.now(),
	}
	secs := int(c.cfg.ChallengeTimeout / time.Second)
	msgID, err := c.msg.SendText(ctx, chatID, challengeText(m, secs), challengeControls(m))
	if err != nil {
		return View{}, ports.User{}, ports.User{}, fmt.Errorf("send challenge: %w", err)
	}
	m.challengeMsgID = msgID
	m.timer = time.AfterFunc(c.cfg.ChallengeTimeout, func() { c.expire(chatID, m) })
	c.put(chatID, m)

	c.log.Info("challenge issued",
		zap.String("chat", chatID), zap.String("match", m.id),
		zap.String("challenger", ch.ID), zap.String("opponent", op.ID))
	return m.view(), ch, op, nil
}

// expire runs on the challenge timer. It only removes m if m is still
// the chat's match and still unanswered.
func (c *Coordinator) expire(chatID string, m *match) {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	if c.get(chatID) != m || m.state != stateChallenged {
		return
	}
	c.remove(chatID, m)
	c.log.Info("challenge expired", zap.String("chat", chatID), zap.String("match", m.id))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.msg.EditText(ctx, chatID, m.challengeMsgID, "⌛ PvP challenge expired.", nil); err != nil {
		c.log.Warn("edit expired challenge", zap.String("chat", chatID), zap.Error(err))
	}
	publishExpired(m)
}

// IssueAIChallenge starts a match against a stored AI template right away.
func (c *Coordinator) IssueAIChallenge(ctx context.Context, chatID, userID, difficulty string) (View, error) {
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	unlock := c.locks.Lock(chatID)
	defer unlock()

	if c.get(chatID) != nil {
		return View{}, ErrMatchInProgress
	}
	u, err := c.resolveUser(ctx, userID)
	if err != nil {
		return View{}, err
	}
	tpl, err := c.store.LoadAISquad(ctx, difficulty)
	if errors.Is(err, ports.ErrNotFound) || (err == nil && len(tpl) == 0) {
		return View{}, ErrNoAISquad
	}
	if err != nil {
		return View{}, fmt.Errorf("load ai squad %s: %w", difficulty, err)
	}
	us, err := c.squads.Get(ctx, u.ID)
	if err != nil {
		return View{}, err
	}

	m := &match{
		id:         uuid.NewString(),
		chatID:     chatID,
		challenger: side{id: u.ID, name: u.Username},
		opponent:   side{id: squad.AIOwner, name: fmt.Sprintf("AI (%s)", difficulty)},
		ai:         true,
		difficulty: difficulty,
		aiSquad:    squad.NewAISquad(tpl),
		state:      stateStarted,
		round:      1,
		createdAt:  c.now(),
	}
	msgID, err := c.msg.SendText(ctx, chatID, kickoffText(m, us.Snapshot(), m.aiSquad.Snapshot()), roundControls(m, 1))
	if err != nil {
		return View{}, fmt.Errorf("send kickoff: %w", err)
	}
	m.matchMsgID = msgID
	c.put(chatID, m)

	c.log.Info("ai match started",
		zap.String("chat", chatID), zap.String("match", m.id),
		zap.String("user", u.ID), zap.String("difficulty", difficulty))
	return m.view(), nil
}

// pending returns the chat's match for a challenge answer from userID.
func (c *Coordinator) pending(chatID, matchID, userID string) (*match, error) {
	m := c.get(chatID)
	if m == nil {
		return nil, ErrNoMatch
	}
	if m.id != matchID || m.state != stateChallenged {
		return nil, ErrStale
	}
	if userID != m.opponent.id {
		return nil, ErrNotOpponent
	}
	return m, nil
}

// AcceptChallenge starts the match and posts the round-1 prompt.
func (c *Coordinator) AcceptChallenge(ctx context.Context, chatID, matchID, userID string) error {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	m, err := c.pending(chatID, matchID, userID)
	if err != nil {
		return err
	}
	m.timer.Stop()

	a, b, err := c.lineups(ctx, m)
	if err != nil {
		c.remove(chatID, m)
		c.editQuiet(ctx, chatID, m.challengeMsgID, "⚠️ The match could not start. Try again.")
		return err
	}

	c.mu.Lock()
	m.state = stateStarted
	m.round = 1
	c.mu.Unlock()
	c.editQuiet(ctx, chatID, m.challengeMsgID, fmt.Sprintf("✅ %s accepted the challenge!", m.opponent.name))

	msgID, err := c.msg.SendText(ctx, chatID, kickoffText(m, a, b), roundControls(m, 1))
	if err != nil {
		c.remove(chatID, m)
		return fmt.Errorf("send kickoff: %w", err)
	}
	m.matchMsgID = msgID
	c.log.Info("match started", zap.String("chat", chatID), zap.String("match", m.id))
	return nil
}

// DeclineChallenge drops the pending match.
func (c *Coordinator) DeclineChallenge(ctx context.Context, chatID, matchID, userID string) error {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	m, err := c.pending(chatID, matchID, userID)
	if err != nil {
		return err
	}
	c.remove(chatID, m)
	c.editQuiet(ctx, chatID, m.challengeMsgID, fmt.Sprintf("❌ %s declined the challenge.", m.opponent.name))
	c.log.Info("challenge declined", zap.String("chat", chatID), zap.String("match", m.id))
	return nil
}

// CancelMatch removes whatever match the chat has. Safe with no match.
func (c *Coordinator) CancelMatch(ctx context.Context, chatID string) bool {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	m := c.get(chatID)
	if m == nil {
		return false
	}
	c.remove(chatID, m)
	c.log.Info("match cancelled", zap.String("chat", chatID), zap.String("match", m.id))
	return true
}

// Active returns a snapshot of the chat's match.
func (c *Coordinator) Active(chatID string) (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[chatID]
	if !ok {
		return View{}, false
	}
	return m.view(), true
}

// List returns all matches, oldest first.
func (c *Coordinator) List() []View {
	c.mu.RLock()
	out := make([]View, 0, len(c.matches))
	for _, m := range c.matches {
		out = append(out, m.view())
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (c *Coordinator) lineups(ctx context.Context, m *match) (squad.Lineup, squad.Lineup, error) {
	a, err := c.squads.Get(ctx, m.challenger.id)
	if err != nil {
		return squad.Lineup{}, squad.Lineup{}, err
	}
	if m.ai {
		return a.Snapshot(), m.aiSquad.Snapshot(), nil
	}
	b, err := c.squads.Get(ctx, m.opponent.id)
	if err != nil {
		return squad.Lineup{}, squad.Lineup{}, err
	}
	return a.Snapshot(), b.Snapshot(), nil
}

func (c *Coordinator) editQuiet(ctx context.Context, chatID, messageID, text string) {
	if messageID == "" {
		return
	}
	if err := c.msg.EditText(ctx, chatID, messageID, text, nil); err != nil {
		c.log.Warn("edit message", zap.String("chat", chatID), zap.String("message", messageID), zap.Error(err))
	}
}
