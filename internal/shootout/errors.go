package shootout

import "errors"

// gerr is a comparable error so callers can use errors.Is.
type gerr string

func (e gerr) Error() string { return string(e) }

var (
	ErrGameInProgress = gerr("a penalty shootout is already running")
	ErrSelfChallenge  = gerr("you can't challenge yourself")
	ErrNoGame         = gerr("no active penalty shootout")
	ErrNotYourTurn    = gerr("it's not your turn")
	ErrBadDirection   = gerr("unknown direction")

	// ErrStale marks a duplicate or late button press.
	ErrStale = gerr("stale shootout action")
)

// IsRace reports whether err is an expected duplicate/late delivery.
func IsRace(err error) bool { return errors.Is(err, ErrStale) }
