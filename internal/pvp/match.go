package pvp

import (
	"time"

	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

type state int

const (
	stateChallenged state = iota
	stateStarted
)

type side struct {
	id   string
	name string
}

type match struct {
	id         string
	chatID     string
	challenger side
	opponent   side
	ai         bool
	difficulty string
	aiSquad    *squad.Squad

	state           state
	round           int
	goalsA, goalsB  int
	roundInProgress bool

	challengeMsgID string
	matchMsgID     string
	timer          *time.Timer
	createdAt      time.Time
}

func (m *match) isParticipant(userID string) bool {
	if userID == m.challenger.id {
		return true
	}
	return !m.ai && userID == m.opponent.id
}

// View is a read-only snapshot of a match.
type View struct {
	ID              string    `json:"id"`
	ChatID          string    `json:"chat_id"`
	ChallengerID    string    `json:"challenger_id"`
	ChallengerName  string    `json:"challenger_name"`
	OpponentID      string    `json:"opponent_id"`
	OpponentName    string    `json:"opponent_name"`
	ChallengerGoals int       `json:"challenger_goals"`
	OpponentGoals   int       `json:"opponent_goals"`
	Round           int       `json:"round"`
	Started         bool      `json:"started"`
	AI              bool      `json:"ai"`
	Difficulty      string    `json:"difficulty,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (m *match) view() View {
	return View{
		ID:              m.id,
		ChatID:          m.chatID,
		ChallengerID:    m.challenger.id,
		ChallengerName:  m.challenger.name,
		OpponentID:      m.opponent.id,
		OpponentName:    m.opponent.name,
		ChallengerGoals: m.goalsA,
		OpponentGoals:   m.goalsB,
		Round:           m.round,
		Started:         m.state == stateStarted,
		AI:              m.ai,
		Difficulty:      m.difficulty,
		CreatedAt:       m.createdAt,
	}
}
