package squad

import "strings"

// AIOwner is the owner id used for computer-controlled squads.
const AIOwner = "ai"

// Class is the playing position printed on a player card.
type Class string

const (
	ClassGK  Class = "GK"
	ClassCB  Class = "CB"
	ClassMID Class = "MID"
	ClassFRW Class = "FRW"
)

// Position is one of the 11 lineup slots.
type Position string

const (
	GK    Position = "GK"
	CB1   Position = "CB1"
	CB2   Position = "CB2"
	CB3   Position = "CB3"
	MID1  Position = "MID1"
	MID2  Position = "MID2"
	MID3  Position = "MID3"
	FRW1  Position = "FRW1"
	FRW2  Position = "FRW2"
	FRW3  Position = "FRW3"
	EXTRA Position = "EXTRA"
)

// Positions lists every slot in display order.
var Positions = [slotCount]Position{GK, CB1, CB2, CB3, MID1, MID2, MID3, FRW1, FRW2, FRW3, EXTRA}

const slotCount = 11

// ParsePosition accepts any casing ("cb1", "Extra").
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.index() >= 0
}

func (p Position) index() int {
	for i, q := range Positions {
		if q == p {
			return i
		}
	}
	return -1
}

// Accepts reports whether a player of class c may occupy the slot.
func (p Position) Accepts(c Class) bool {
	switch p {
	case GK:
		return c == ClassGK
	case CB1, CB2, CB3:
		return c == ClassCB
	case MID1, MID2, MID3:
		return c == ClassMID
	case FRW1, FRW2, FRW3:
		return c == ClassFRW
	case EXTRA:
		return c == ClassCB || c == ClassMID || c == ClassFRW
	}
	return false
}

// Player is an immutable card snapshot. Lineups share pointers to it.
type Player struct {
	ID       int
	Name     string
	TeamID   int
	Class    Class
	Rating   int
	Category string
}

// Emoji is the badge shown next to the player's name.
func (p *Player) Emoji() string {
	switch strings.ToLower(p.Category) {
	case "bronze":
		return "🥉"
	case "silver":
		return "🥈"
	case "gold":
		return "🥇"
	case "diamond":
		return "💎"
	case "season":
		return "🎖️"
	case "legend":
		return "🏆"
	}
	return ""
}
