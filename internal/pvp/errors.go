package pvp

import "errors"

// perr is a comparable error so callers can use errors.Is.
type perr string

func (e perr) Error() string { return string(e) }

// Validation errors. The router shows these to the acting user.
var (
	ErrMatchInProgress = perr("a match is already running in this channel")
	ErrSelfChallenge   = perr("you can't challenge yourself")
	ErrUnknownUser     = perr("user not found")
	ErrNoAISquad       = perr("no AI squad for that difficulty")
	ErrNoMatch         = perr("no active match")
	ErrNotOpponent     = perr("only the challenged player can answer")
	ErrNotParticipant  = perr("not your match")
)

// Races from duplicated or late button presses. The router drops them silently.
var (
	ErrStale           = perr("stale match action")
	ErrRoundInProgress = perr("round already in progress")
)

// IsRace reports whether err is an expected duplicate/late delivery.
func IsRace(err error) bool {
	return errors.Is(err, ErrStale) || errors.Is(err, ErrRoundInProgress)
}
