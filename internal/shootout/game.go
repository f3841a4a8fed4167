package shootout

import (
	"strings"
	"time"
)

// Direction is where a kick is aimed or where the keeper dives.
type Direction string

const (
	Left   Direction = "left"
	Center Direction = "center"
	Right  Direction = "right"
)

var Directions = []Direction{Left, Center, Right}

func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Left, Center, Right:
		return d, true
	}
	return "", false
}

// Participant is one side of a shootout.
type Participant struct {
	ID   string
	Name string
}

// Phase is the half-turn the game is waiting for.
type Phase string

const (
	WaitingForKick Phase = "waiting_for_kick"
	WaitingForSave Phase = "waiting_for_save"
)

// Regulation is the number of kicks per side before sudden death.
const Regulation = 5

const (
	challenger = 0
	opponent   = 1
)

type game struct {
	id      string
	chatID  string
	players [2]Participant
	goals   [2][]bool
	kicks   [2]int
	kicking int
	phase   Phase
	pending Direction

	promptMsgID string
	createdAt   time.Time
}

func (g *game) kicker() Participant { return g.players[g.kicking] }
func (g *game) keeper() Participant { return g.players[1-g.kicking] }

func (g *game) score(side int) int {
	n := 0
	for _, scored := range g.goals[side] {
		if scored {
			n++
		}
	}
	return n
}

func (g *game) suddenDeath() bool {
	return g.kicks[challenger] >= Regulation && g.kicks[opponent] >= Regulation
}

// winner returns the winning side once a pair is complete and the scores
// differ after regulation.
func (g *game) winner() (int, bool) {
	if g.kicks[challenger] != g.kicks[opponent] || g.kicks[challenger] < Regulation {
		return 0, false
	}
	a, b := g.score(challenger), g.score(opponent)
	switch {
	case a > b:
		return challenger, true
	case b > a:
		return opponent, true
	}
	return 0, false
}

// View is a read-only snapshot of a shootout.
type View struct {
	ID              string    `json:"id"`
	ChatID          string    `json:"chat_id"`
	Challenger      string    `json:"challenger"`
	Opponent        string    `json:"opponent"`
	ChallengerGoals int       `json:"challenger_goals"`
	OpponentGoals   int       `json:"opponent_goals"`
	ChallengerKicks int       `json:"challenger_kicks"`
	OpponentKicks   int       `json:"opponent_kicks"`
	KickerID        string    `json:"kicker_id"`
	Phase           Phase     `json:"phase"`
	SuddenDeath     bool      `json:"sudden_death"`
	CreatedAt       time.Time `json:"created_at"`
}

func (g *game) view() View {
	return View{
		ID:              g.id,
		ChatID:          g.chatID,
		Challenger:      g.players[challenger].Name,
		Opponent:        g.players[opponent].Name,
		ChallengerGoals: g.score(challenger),
		OpponentGoals:   g.score(opponent),
		ChallengerKicks: g.kicks[challenger],
		OpponentKicks:   g.kicks[opponent],
		KickerID:        g.kicker().ID,
		Phase:           g.phase,
		SuddenDeath:     g.suddenDeath(),
		CreatedAt:       g.createdAt,
	}
}
