package squad

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeStore struct {
	mu        sync.Mutex
	slots     map[string]map[Position]*Player
	persisted []Position
	loads     int32
	failWrite error
}

func newFakeStore() *fakeStore {
	return &fakeStore{slots: map[string]map[Position]*Player{}}
}

func (f *fakeStore) LoadSquad(_ context.Context, owner string) (map[Position]*Player, error) {
	atomic.AddInt32(&f.loads, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[Position]*Player{}
	for k, v := range f.slots[owner] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) PersistSlot(_ context.Context, owner string, pos Position, p *Player) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slots[owner] == nil {
		f.slots[owner] = map[Position]*Player{}
	}
	f.slots[owner][pos] = p
	f.persisted = append(f.persisted, pos)
	return nil
}

func classFor(pos Position) Class {
	switch pos {
	case GK:
		return ClassGK
	case CB1, CB2, CB3:
		return ClassCB
	case MID1, MID2, MID3, EXTRA:
		return ClassMID
	}
	return ClassFRW
}

// fullLineup fills every slot with a player of the matching class.
func fullLineup(team func(i int) int, rating func(i int) int) Lineup {
	var l Lineup
	for i, pos := range Positions {
		l[i] = &Player{ID: i + 1, Name: string(pos), TeamID: team(i), Class: classFor(pos), Rating: rating(i)}
	}
	return l
}

func TestTotalRating_FullChemistry(t *testing.T) {
	// ten 91s and one 90 -> 1000
	l := fullLineup(func(int) int { return 7 }, func(i int) int {
		if i == 0 {
			return 90
		}
		return 91
	})
	if got := l.Chemistry(); got != 1.75 {
		t.Fatalf("chemistry: want 1.75, got %v", got)
	}
	if got := l.TotalRating(); got != 1750 {
		t.Fatalf("total: want 1750, got %d", got)
	}
}

func TestTotalRating_PartialChemistry(t *testing.T) {
	var l Lineup
	ratings := []int{80, 80, 80, 80, 90, 90} // 500
	for i, r := range ratings {
		pos := Positions[i]
		l[i] = &Player{ID: i, TeamID: 3, Class: classFor(pos), Rating: r}
	}
	if got := l.Chemistry(); got != 1.25 {
		t.Fatalf("chemistry: want 1.25, got %v", got)
	}
	if got := l.TotalRating(); got != 625 {
		t.Fatalf("total: want 625, got %d", got)
	}
	if l.ChemistryDescription() != "⚡ Partial chemistry (+25%)" {
		t.Fatalf("label: %q", l.ChemistryDescription())
	}
}

func TestChemistry_AllDistributions(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		teams := 1 + r.Intn(5)
		filled := r.Intn(12)
		var l Lineup
		counts := map[int]int{}
		for i := 0; i < filled; i++ {
			tm := r.Intn(teams)
			counts[tm]++
			l[i] = &Player{TeamID: tm, Class: classFor(Positions[i]), Rating: 50}
		}
		best := 0
		for _, c := range counts {
			if c > best {
				best = c
			}
		}
		want := 1.0
		if best == 11 {
			want = 1.75
		} else if best >= 6 {
			want = 1.25
		}
		if got := l.Chemistry(); got != want {
			t.Fatalf("case %d: best=%d want %v got %v", n, best, want, got)
		}
	}
}

func TestScores_Weights(t *testing.T) {
	// all 60 rated, spread over teams so chemistry stays 1.0
	l := fullLineup(func(i int) int { return i }, func(int) int { return 60 })
	// attack: 3 MID*0.05*60 + 3 FRW*60/15 + EXTRA(MID)*0.05*60 = 9 + 12 + 3
	if got := l.AttackScore(); math.Abs(got-24) > 1e-9 {
		t.Fatalf("attack: want 24, got %v", got)
	}
	// defense: GK 6 + 3 CB*4 + 3 MID*3 + EXTRA(MID) 3 = 30
	if got := l.DefenseScore(); math.Abs(got-30) > 1e-9 {
		t.Fatalf("defense: want 30, got %v", got)
	}

	l[10] = &Player{TeamID: 99, Class: ClassFRW, Rating: 60}
	if got := l.AttackScore(); math.Abs(got-27) > 1e-9 {
		t.Fatalf("attack with FRW extra: want 27, got %v", got)
	}
	if got := l.DefenseScore(); math.Abs(got-27) > 1e-9 {
		t.Fatalf("defense with FRW extra: want 27, got %v", got)
	}
}

func TestSetSlot_ClassValidation(t *testing.T) {
	ctx := context.Background()
	classes := []Class{ClassGK, ClassCB, ClassMID, ClassFRW}
	for _, pos := range Positions {
		for _, c := range classes {
			store := newFakeStore()
			s := &Squad{owner: "u1", store: store}
			err := s.SetSlot(ctx, pos, &Player{ID: 1, Class: c, Rating: 70})
			if pos.Accepts(c) {
				if err != nil {
					t.Fatalf("%s/%s: unexpected error %v", pos, c, err)
				}
				if s.Slot(pos) == nil || len(store.persisted) != 1 {
					t.Fatalf("%s/%s: slot not stored", pos, c)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidAssignment) {
				t.Fatalf("%s/%s: want ErrInvalidAssignment, got %v", pos, c, err)
			}
			if s.Slot(pos) != nil || len(store.persisted) != 0 {
				t.Fatalf("%s/%s: state changed on invalid assignment", pos, c)
			}
		}
	}
}

func TestSetSlot_RejectsCardAlreadyInSquad(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	c := NewCache(store, nil)
	s, err := c.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	star := &Player{ID: 7, Class: ClassFRW, Rating: 99}

	if err := s.SetSlot(ctx, FRW1, star); err != nil {
		t.Fatal(err)
	}
	for _, pos := range []Position{FRW2, FRW3, EXTRA} {
		if err := s.SetSlot(ctx, pos, star); !errors.Is(err, ErrAlreadyInSquad) {
			t.Fatalf("%s: want ErrAlreadyInSquad, got %v", pos, err)
		}
		if s.Slot(pos) != nil {
			t.Fatalf("%s: duplicate card stored", pos)
		}
	}
	if got := s.Snapshot().Filled(); got != 1 {
		t.Fatalf("filled = %d, want 1", got)
	}
	if len(store.persisted) != 1 {
		t.Fatalf("persisted %d writes, want 1", len(store.persisted))
	}

	// same slot again is not a duplicate
	if err := s.SetSlot(ctx, FRW1, star); err != nil {
		t.Fatalf("reassign same slot: %v", err)
	}
	// moving the card works once its old slot is cleared
	if err := s.SetSlot(ctx, FRW1, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSlot(ctx, EXTRA, star); err != nil {
		t.Fatalf("move after clear: %v", err)
	}
}

func TestSetSlot_StoreFailureLeavesSlot(t *testing.T) {
	store := newFakeStore()
	store.failWrite = errors.New("db down")
	s := &Squad{owner: "u1", store: store}

	err := s.SetSlot(context.Background(), GK, &Player{Class: ClassGK, Rating: 80})
	if err == nil {
		t.Fatal("want error")
	}
	if s.Slot(GK) != nil {
		t.Fatal("slot changed despite failed write")
	}
}

func TestCache_LoadsOnceAndClearsInvalid(t *testing.T) {
	store := newFakeStore()
	store.slots["u1"] = map[Position]*Player{
		GK:  {ID: 1, Class: ClassGK, Rating: 80},
		CB1: {ID: 2, Class: ClassFRW, Rating: 70}, // wrong class
	}
	c := NewCache(store, nil)

	var wg sync.WaitGroup
	got := make([]*Squad, 20)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Get(context.Background(), "u1")
			if err != nil {
				t.Error(err)
				return
			}
			got[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range got[1:] {
		if s != got[0] {
			t.Fatal("different squad instances for one owner")
		}
	}
	if n := atomic.LoadInt32(&store.loads); n != 1 {
		t.Fatalf("want 1 load, got %d", n)
	}
	if got[0].Slot(CB1) != nil {
		t.Fatal("invalid slot kept")
	}
	if store.slots["u1"][CB1] != nil {
		t.Fatal("invalid slot not cleared in store")
	}
	if got[0].Slot(GK) == nil {
		t.Fatal("valid slot dropped")
	}
}

func TestNewAISquad_DropsInvalid(t *testing.T) {
	s := NewAISquad(map[Position]*Player{
		GK:    {Class: ClassGK, Rating: 70},
		EXTRA: {Class: ClassGK, Rating: 70},
	})
	if s.Owner() != AIOwner {
		t.Fatalf("owner: %q", s.Owner())
	}
	if s.Slot(EXTRA) != nil || s.Slot(GK) == nil {
		t.Fatal("template not filtered")
	}
}

func TestParsePosition(t *testing.T) {
	if p, ok := ParsePosition(" cb2 "); !ok || p != CB2 {
		t.Fatalf("got %q %v", p, ok)
	}
	if _, ok := ParsePosition("LW"); ok {
		t.Fatal("LW accepted")
	}
}
