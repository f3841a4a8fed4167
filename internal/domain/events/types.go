package events

import "time"

// MatchCompleted is emitted once when a PvP match reaches its final whistle.
type MatchCompleted struct {
	ChatID          string
	MatchID         string
	ChallengerID    string
	ChallengerName  string
	OpponentID      string
	OpponentName    string
	ChallengerGoals int
	OpponentGoals   int
	WinnerID        string // empty on a draw
	AI              bool
	Rounds          int
	At              time.Time
}

// ChallengeExpired is emitted when a PvP challenge times out unanswered.
type ChallengeExpired struct {
	ChatID       string
	MatchID      string
	ChallengerID string
	OpponentID   string
}

// ShootoutCompleted is emitted once when a penalty shootout has a winner.
type ShootoutCompleted struct {
	ChatID          string
	GameID          string
	ChallengerID    string
	ChallengerName  string
	OpponentID      string
	OpponentName    string
	ChallengerGoals int
	OpponentGoals   int
	WinnerID        string
	Kicks           int
	At              time.Time
}
