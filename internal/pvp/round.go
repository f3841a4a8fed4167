package pvp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jose-valero/pitchduel-bot/internal/domain/events"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

// scoringChance is the percent chance an attack beats the opposing defense.
func scoringChance(attack, defense float64) float64 {
	if attack+defense <= 0 {
		return 0
	}
	return attack / (attack + defense) * 100
}

// AdvanceRound plays round for the chat's match on behalf of userID.
//
// Duplicate presses while a round is running return ErrRoundInProgress, and
// presses for another match or an already played round return ErrStale.
// Neither touches the score.
func (c *Coordinator) AdvanceRound(ctx context.Context, chatID, matchID string, round int, userID string) error {
	m, goalsA, goalsB, err := c.beginRound(chatID, matchID, round, userID)
	if err != nil {
		return err
	}
	defer c.endRound(chatID, m)

	a, b, err := c.lineups(ctx, m)
	if err != nil {
		c.log.Warn("round aborted", zap.String("chat", chatID), zap.String("match", m.id), zap.Error(err))
		return err
	}

	goalA := c.src.Draw() < scoringChance(a.AttackScore(), b.DefenseScore()) && goalsA < GoalCap
	goalB := c.src.Draw() < scoringChance(b.AttackScore(), a.DefenseScore()) && goalsB < GoalCap

	if err := sleepCtx(ctx, c.cfg.RoundDelay); err != nil {
		c.log.Info("round interrupted", zap.String("chat", chatID), zap.String("match", m.id), zap.Error(err))
		return err
	}

	res, ok := c.commitRound(chatID, m, round, goalA, goalB)
	if !ok {
		// cancelled while we were waiting
		return ErrStale
	}

	if res.finished {
		res.rewarded = c.reward(ctx, m, res)
	}
	text := roundText(m, a, b, res)
	if res.finished {
		c.publishRound(ctx, chatID, m, text, false)
		publishCompleted(m, res, c.now())
		c.log.Info("match finished",
			zap.String("chat", chatID), zap.String("match", m.id),
			zap.Int("goals_a", res.goalsA), zap.Int("goals_b", res.goalsB), zap.Int("round", res.round))
		return nil
	}
	c.publishRound(ctx, chatID, m, text, true)
	return nil
}

func (c *Coordinator) beginRound(chatID, matchID string, round int, userID string) (*match, int, int, error) {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	m := c.get(chatID)
	if m == nil {
		return nil, 0, 0, ErrNoMatch
	}
	if m.id != matchID || m.state != stateStarted {
		return nil, 0, 0, ErrStale
	}
	if m.roundInProgress {
		return nil, 0, 0, ErrRoundInProgress
	}
	if !m.isParticipant(userID) {
		return nil, 0, 0, ErrNotParticipant
	}
	if round != m.round {
		return nil, 0, 0, ErrStale
	}
	m.roundInProgress = true
	return m, m.goalsA, m.goalsB, nil
}

func (c *Coordinator) endRound(chatID string, m *match) {
	unlock := c.locks.Lock(chatID)
	m.roundInProgress = false
	unlock()
}

// commitRound applies the goals and decides whether the match is over.
// A finished match is removed here, so only one caller ever rewards it.
func (c *Coordinator) commitRound(chatID string, m *match, round int, goalA, goalB bool) (roundResult, bool) {
	unlock := c.locks.Lock(chatID)
	defer unlock()

	if c.get(chatID) != m {
		return roundResult{}, false
	}
	c.mu.Lock()
	if goalA {
		m.goalsA++
	}
	if goalB {
		m.goalsB++
	}
	c.mu.Unlock()
	res := roundResult{
		round:  round,
		goalA:  goalA,
		goalB:  goalB,
		goalsA: m.goalsA,
		goalsB: m.goalsB,
	}
	res.finished = round >= MaxRounds || m.goalsA >= GoalCap || m.goalsB >= GoalCap
	if res.finished {
		c.remove(chatID, m)
	} else {
		c.mu.Lock()
		m.round++
		c.mu.Unlock()
	}
	return res, true
}

// publishRound edits the match message, falling back to a new message
// when the edit fails.
func (c *Coordinator) publishRound(ctx context.Context, chatID string, m *match, text string, next bool) {
	unlock := c.locks.Lock(chatID)
	msgID, nextRound := m.matchMsgID, m.round
	unlock()

	controls := roundControls(m, nextRound)
	if !next {
		controls = nil
	}
	err := c.msg.EditText(ctx, chatID, msgID, text, controls)
	if err == nil {
		return
	}
	c.log.Warn("edit round message", zap.String("chat", chatID), zap.String("match", m.id), zap.Error(err))

	newID, err := c.msg.SendText(ctx, chatID, text, controls)
	if err != nil {
		c.log.Error("send round message", zap.String("chat", chatID), zap.String("match", m.id), zap.Error(err))
		return
	}
	unlock = c.locks.Lock(chatID)
	m.matchMsgID = newID
	unlock()
}

// reward credits the result and reports whether every credit went through.
func (c *Coordinator) reward(ctx context.Context, m *match, res roundResult) bool {
	ok := true
	credit := func(userID string, points, currency int) {
		if userID == squad.AIOwner {
			return
		}
		if err := c.store.CreditPoints(ctx, userID, points); err != nil {
			ok = false
			c.log.Error("credit points", zap.String("user", userID), zap.String("match", m.id), zap.Error(err))
		}
		if currency == 0 {
			return
		}
		if err := c.store.CreditCurrency(ctx, userID, currency); err != nil {
			ok = false
			c.log.Error("credit currency", zap.String("user", userID), zap.String("match", m.id), zap.Error(err))
		}
	}

	switch {
	case res.goalsA > res.goalsB:
		credit(m.challenger.id, WinPoints, WinCurrency)
	case res.goalsB > res.goalsA:
		credit(m.opponent.id, WinPoints, WinCurrency)
	default:
		credit(m.challenger.id, DrawPoints, 0)
		credit(m.opponent.id, DrawPoints, 0)
	}
	return ok
}

func publishCompleted(m *match, res roundResult, at time.Time) {
	winner := ""
	switch {
	case res.goalsA > res.goalsB:
		winner = m.challenger.id
	case res.goalsB > res.goalsA:
		winner = m.opponent.id
	}
	events.Publish(events.MatchCompleted{
		ChatID:          m.chatID,
		MatchID:         m.id,
		ChallengerID:    m.challenger.id,
		ChallengerName:  m.challenger.name,
		OpponentID:      m.opponent.id,
		OpponentName:    m.opponent.name,
		ChallengerGoals: res.goalsA,
		OpponentGoals:   res.goalsB,
		WinnerID:        winner,
		AI:              m.ai,
		Rounds:          res.round,
		At:              at,
	})
}

func publishExpired(m *match) {
	events.Publish(events.ChallengeExpired{
		ChatID:       m.chatID,
		MatchID:      m.id,
		ChallengerID: m.challenger.id,
		OpponentID:   m.opponent.id,
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
