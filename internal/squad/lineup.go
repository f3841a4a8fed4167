package squad

// Lineup is a value copy of the 11 slots. All ratings derive from it.
type Lineup [slotCount]*Player

// Get returns the occupant of pos, or nil.
func (l Lineup) Get(pos Position) *Player {
	i := pos.index()
	if i < 0 {
		return nil
	}
	return l[i]
}

// Chemistry returns the same-team multiplier.
func (l Lineup) Chemistry() float64 {
	switch best := l.largestTeam(); {
	case best == slotCount:
		return 1.75
	case best >= 6:
		return 1.25
	default:
		return 1.0
	}
}

// ChemistryDescription labels the tier returned by Chemistry.
func (l Lineup) ChemistryDescription() string {
	switch best := l.largestTeam(); {
	case best == slotCount:
		return "🔥 Full chemistry (+75%)"
	case best >= 6:
		return "⚡ Partial chemistry (+25%)"
	default:
		return "🛠 No chemistry"
	}
}

func (l Lineup) largestTeam() int {
	counts := map[int]int{}
	best := 0
	for _, p := range l {
		if p == nil {
			continue
		}
		counts[p.TeamID]++
		if counts[p.TeamID] > best {
			best = counts[p.TeamID]
		}
	}
	return best
}

// TotalRating is the sum of ratings times chemistry, truncated.
func (l Lineup) TotalRating() int {
	sum := 0
	for _, p := range l {
		if p != nil {
			sum += p.Rating
		}
	}
	return int(float64(sum) * l.Chemistry())
}

// AttackScore weighs midfield and attack. The goalkeeper and centre-backs
// never contribute.
func (l Lineup) AttackScore() float64 {
	total := 0.0
	for i, p := range l {
		if p == nil {
			continue
		}
		switch Positions[i] {
		case MID1, MID2, MID3:
			total += float64(p.Rating) * 0.05
		case FRW1, FRW2, FRW3:
			total += float64(p.Rating) / 15
		case EXTRA:
			switch p.Class {
			case ClassMID:
				total += float64(p.Rating) * 0.05
			case ClassFRW:
				total += float64(p.Rating) * 0.1
			}
		}
	}
	return total * l.Chemistry()
}

// DefenseScore weighs goalkeeper, centre-backs and midfield.
func (l Lineup) DefenseScore() float64 {
	total := 0.0
	for i, p := range l {
		if p == nil {
			continue
		}
		switch Positions[i] {
		case GK:
			total += float64(p.Rating) * 0.1
		case CB1, CB2, CB3:
			total += float64(p.Rating) / 15
		case MID1, MID2, MID3:
			total += float64(p.Rating) * 0.05
		case EXTRA:
			switch p.Class {
			case ClassCB:
				total += float64(p.Rating) * 0.1
			case ClassMID:
				total += float64(p.Rating) * 0.05
			}
		}
	}
	return total * l.Chemistry()
}

// Filled counts occupied slots.
func (l Lineup) Filled() int {
	n := 0
	for _, p := range l {
		if p != nil {
			n++
		}
	}
	return n
}

// buildLineup places each player in its slot and reports the slots whose
// occupant does not fit.
func buildLineup(slots map[Position]*Player) (Lineup, []Position) {
	var l Lineup
	var rejected []Position
	for pos, p := range slots {
		i := pos.index()
		if i < 0 || p == nil {
			continue
		}
		if !pos.Accepts(p.Class) {
			rejected = append(rejected, pos)
			continue
		}
		l[i] = p
	}
	return l, rejected
}
