package squad

// serr is a comparable error so callers can use errors.Is.
type serr string

func (e serr) Error() string { return string(e) }

var (
	ErrInvalidAssignment = serr("player position does not fit the slot")
	ErrUnknownPosition   = serr("unknown squad position")
	ErrAlreadyInSquad    = serr("player is already in your squad at another position")
)
