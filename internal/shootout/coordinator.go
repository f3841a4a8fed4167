// Package shootout runs the penalty mini-game: the kicker picks a spot, the
// keeper picks a dive, and it's a goal when they differ.
package shootout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jose-valero/pitchduel-bot/internal/domain/events"
	"github.com/jose-valero/pitchduel-bot/internal/keylock"
	"github.com/jose-valero/pitchduel-bot/internal/ports"
)

const (
	WinPoints   = 10
	WinCurrency = 50
)

// Scope decides how many shootouts may run at once.
type Scope int

const (
	// ScopeChat allows one shootout per chat.
	ScopeChat Scope = iota
	// ScopeGlobal allows a single shootout across all chats.
	ScopeGlobal
)

func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chat":
		return ScopeChat, nil
	case "global":
		return ScopeGlobal, nil
	}
	return ScopeChat, fmt.Errorf("unknown shootout scope %q", s)
}

const globalKey = "*"

// Store is the persistence the coordinator needs.
type Store interface {
	CreditPoints(ctx context.Context, userID string, amount int) error
	CreditCurrency(ctx context.Context, userID string, amount int) error
}

type Coordinator struct {
	scope Scope
	store Store
	msg   ports.Messenger
	log   *zap.Logger
	now   func() time.Time

	locks keylock.Map

	mu    sync.RWMutex
	games map[string]*game // scope key -> game
}

func New(scope Scope, store Store, msg ports.Messenger, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		scope: scope,
		store: store,
		msg:   msg,
		log:   log.Named("shootout"),
		now:   time.Now,
		games: make(map[string]*game),
	}
}

func (c *Coordinator) key(chatID string) string {
	if c.scope == ScopeGlobal {
		return globalKey
	}
	return chatID
}

// lookup returns the game for chatID. Caller holds the key lock.
func (c *Coordinator) lookup(chatID string) *game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g := c.games[c.key(chatID)]
	if g == nil || g.chatID != chatID {
		return nil
	}
	return g
}

func (c *Coordinator) drop(g *game) {
	c.mu.Lock()
	delete(c.games, c.key(g.chatID))
	c.mu.Unlock()
}

// StartChallenge creates a shootout and prompts the challenger to kick first.
func (c *Coordinator) StartChallenge(ctx context.Context, chatID string, ch, op Participant) (View, error) {
	if ch.ID == op.ID {
		return View{}, ErrSelfChallenge
	}
	unlock := c.locks.Lock(c.key(chatID))
	defer unlock()

	c.mu.RLock()
	busy := c.games[c.key(chatID)] != nil
	c.mu.RUnlock()
	if busy {
		return View{}, ErrGameInProgress
	}

	g := &game{
		id:        uuid.NewString(),
		chatID:    chatID,
		players:   [2]Participant{ch, op},
		kicking:   challenger,
		phase:     WaitingForKick,
		createdAt: c.now(),
	}
	msgID, err := c.msg.SendText(ctx, chatID, kickPrompt(g, ""), directionControls(g, "kick"))
	if err != nil {
		return View{}, fmt.Errorf("send shootout prompt: %w", err)
	}
	g.promptMsgID = msgID

	c.mu.Lock()
	c.games[c.key(chatID)] = g
	c.mu.Unlock()

	c.log.Info("shootout started",
		zap.String("chat", chatID), zap.String("game", g.id),
		zap.String("challenger", ch.ID), zap.String("opponent", op.ID))
	return g.view(), nil
}

// active validates a direction press and returns the game.
func (c *Coordinator) active(chatID, gameID, userID string, want Phase, actor func(*game) Participant) (*game, error) {
	g := c.lookup(chatID)
	if g == nil {
		return nil, ErrNoGame
	}
	if g.id != gameID {
		return nil, ErrStale
	}
	if userID != actor(g).ID {
		return nil, ErrNotYourTurn
	}
	if g.phase != want {
		return nil, ErrStale
	}
	return g, nil
}

// ChooseKickDirection records the kicker's hidden choice and prompts the keeper.
func (c *Coordinator) ChooseKickDirection(ctx context.Context, chatID, gameID, userID string, dir Direction) error {
	if _, ok := ParseDirection(string(dir)); !ok {
		return ErrBadDirection
	}
	unlock := c.locks.Lock(c.key(chatID))
	defer unlock()

	g, err := c.active(chatID, gameID, userID, WaitingForKick, (*game).kicker)
	if err != nil {
		return err
	}
	c.mu.Lock()
	g.pending = dir
	g.phase = WaitingForSave
	c.mu.Unlock()

	c.prompt(ctx, g, savePrompt(g), directionControls(g, "save"))
	return nil
}

// ChooseSaveDirection resolves the pending kick.
func (c *Coordinator) ChooseSaveDirection(ctx context.Context, chatID, gameID, userID string, dir Direction) error {
	if _, ok := ParseDirection(string(dir)); !ok {
		return ErrBadDirection
	}
	unlock := c.locks.Lock(c.key(chatID))
	defer unlock()

	g, err := c.active(chatID, gameID, userID, WaitingForSave, (*game).keeper)
	if err != nil {
		return err
	}

	kicker, keeper := g.kicker(), g.keeper()
	goal := dir != g.pending

	c.mu.Lock()
	side := g.kicking
	g.goals[side] = append(g.goals[side], goal)
	g.kicks[side]++
	g.pending = ""
	g.kicking = 1 - side
	g.phase = WaitingForKick
	c.mu.Unlock()

	last := outcomeLine(kicker, keeper, goal)
	c.log.Debug("kick resolved",
		zap.String("game", g.id), zap.String("kicker", kicker.ID), zap.Bool("goal", goal))

	if w, done := g.winner(); done {
		c.finish(ctx, g, w, last)
		return nil
	}
	c.prompt(ctx, g, kickPrompt(g, last), directionControls(g, "kick"))
	return nil
}

func (c *Coordinator) finish(ctx context.Context, g *game, winner int, last string) {
	c.drop(g)
	w := g.players[winner]
	rewarded := true
	if err := c.store.CreditPoints(ctx, w.ID, WinPoints); err != nil {
		rewarded = false
		c.log.Error("credit points", zap.String("user", w.ID), zap.String("game", g.id), zap.Error(err))
	}
	if err := c.store.CreditCurrency(ctx, w.ID, WinCurrency); err != nil {
		rewarded = false
		c.log.Error("credit currency", zap.String("user", w.ID), zap.String("game", g.id), zap.Error(err))
	}
	c.prompt(ctx, g, resultText(g, winner, last, rewarded), nil)

	events.Publish(events.ShootoutCompleted{
		ChatID:          g.chatID,
		GameID:          g.id,
		ChallengerID:    g.players[challenger].ID,
		ChallengerName:  g.players[challenger].Name,
		OpponentID:      g.players[opponent].ID,
		OpponentName:    g.players[opponent].Name,
		ChallengerGoals: g.score(challenger),
		OpponentGoals:   g.score(opponent),
		WinnerID:        w.ID,
		Kicks:           g.kicks[challenger],
		At:              c.now(),
	})
	c.log.Info("shootout finished",
		zap.String("chat", g.chatID), zap.String("game", g.id), zap.String("winner", w.ID))
}

// Cancel discards the chat's shootout without rewards. In global scope it
// ends the single running game whichever chat it was started in.
func (c *Coordinator) Cancel(ctx context.Context, chatID string) error {
	unlock := c.locks.Lock(c.key(chatID))
	defer unlock()

	g := c.lookup(chatID)
	if c.scope == ScopeGlobal {
		c.mu.RLock()
		g = c.games[globalKey]
		c.mu.RUnlock()
	}
	if g == nil {
		return ErrNoGame
	}
	c.drop(g)
	c.prompt(ctx, g, "🛑 Penalty shootout cancelled by an admin.", nil)
	c.log.Info("shootout cancelled", zap.String("chat", chatID), zap.String("game", g.id))
	return nil
}

// prompt rewrites the game message, posting a new one if the edit fails.
// Caller holds the key lock.
func (c *Coordinator) prompt(ctx context.Context, g *game, text string, controls []ports.Control) {
	err := c.msg.EditText(ctx, g.chatID, g.promptMsgID, text, controls)
	if err == nil {
		return
	}
	c.log.Warn("edit shootout message", zap.String("game", g.id), zap.Error(err))
	id, err := c.msg.SendText(ctx, g.chatID, text, controls)
	if err != nil {
		c.log.Error("send shootout message", zap.String("game", g.id), zap.Error(err))
		return
	}
	g.promptMsgID = id
}

// Active returns a snapshot of the shootout running in chatID.
func (c *Coordinator) Active(chatID string) (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g := c.games[c.key(chatID)]
	if g == nil || g.chatID != chatID {
		return View{}, false
	}
	return g.view(), true
}

// List returns all running shootouts, oldest first.
func (c *Coordinator) List() []View {
	c.mu.RLock()
	out := make([]View, 0, len(c.games))
	for _, g := range c.games {
		out = append(out, g.view())
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
