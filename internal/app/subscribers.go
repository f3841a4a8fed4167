package app

import (
	"go.uber.org/zap"

	"github.com/jose-valero/pitchduel-bot/internal/domain/events"
)

// StartEventSubscribers feeds the results list from the event bus and
// returns a func that unsubscribes everything.
func (b *Bot) StartEventSubscribers() func() {
	log := b.log
	cancels := []func(){
		events.Subscribe(func(ev events.MatchCompleted) {
			b.results.Add(Result{
				Kind:            "pvp",
				ID:              ev.MatchID,
				ChatID:          ev.ChatID,
				Challenger:      ev.ChallengerName,
				Opponent:        ev.OpponentName,
				ChallengerGoals: ev.ChallengerGoals,
				OpponentGoals:   ev.OpponentGoals,
				WinnerID:        ev.WinnerID,
				At:              ev.At,
			})
			log.Info("match completed",
				zap.String("chat", ev.ChatID), zap.String("match", ev.MatchID),
				zap.Int("challenger_goals", ev.ChallengerGoals), zap.Int("opponent_goals", ev.OpponentGoals),
				zap.Bool("ai", ev.AI))
		}),
		events.Subscribe(func(ev events.ShootoutCompleted) {
			b.results.Add(Result{
				Kind:            "shootout",
				ID:              ev.GameID,
				ChatID:          ev.ChatID,
				Challenger:      ev.ChallengerName,
				Opponent:        ev.OpponentName,
				ChallengerGoals: ev.ChallengerGoals,
				OpponentGoals:   ev.OpponentGoals,
				WinnerID:        ev.WinnerID,
				At:              ev.At,
			})
			log.Info("shootout completed",
				zap.String("chat", ev.ChatID), zap.String("game", ev.GameID), zap.String("winner", ev.WinnerID))
		}),
		events.Subscribe(func(ev events.ChallengeExpired) {
			log.Info("challenge expired",
				zap.String("chat", ev.ChatID), zap.String("match", ev.MatchID),
				zap.String("challenger", ev.ChallengerID), zap.String("opponent", ev.OpponentID))
		}),
	}
	log.Debug("bus subscribers registered", zap.Int("count", len(cancels)))

	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
