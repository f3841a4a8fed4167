package pvp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

type sent struct {
	chatID   string
	msgID    string
	text     string
	controls []ports.Control
}

type fakeMessenger struct {
	mu       sync.Mutex
	n        int
	sends    []sent
	edits    []sent
	notified []string
	failEdit bool
	onNotify func(userID string)
}

func (f *fakeMessenger) SendText(_ context.Context, chatID, text string, controls []ports.Control) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	id := fmt.Sprintf("msg-%d", f.n)
	f.sends = append(f.sends, sent{chatID: chatID, msgID: id, text: text, controls: controls})
	return id, nil
}

func (f *fakeMessenger) EditText(_ context.Context, chatID, messageID, text string, controls []ports.Control) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit {
		return errors.New("edit failed")
	}
	f.edits = append(f.edits, sent{chatID: chatID, msgID: messageID, text: text, controls: controls})
	return nil
}

func (f *fakeMessenger) NotifyUser(_ context.Context, userID, _ string) error {
	if f.onNotify != nil {
		f.onNotify(userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, userID)
	return nil
}

func (f *fakeMessenger) lastSend() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends[len(f.sends)-1]
}

func (f *fakeMessenger) lastEdit() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return sent{}
	}
	return f.edits[len(f.edits)-1]
}

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]ports.User
	ai       map[string]map[squad.Position]*squad.Player
	points   map[string]int
	currency map[string]int
	credits  int
	failCred error
}

func newFakeStore(ids ...string) *fakeStore {
	s := &fakeStore{
		users:    map[string]ports.User{},
		ai:       map[string]map[squad.Position]*squad.Player{},
		points:   map[string]int{},
		currency: map[string]int{},
	}
	for _, id := range ids {
		s.users[id] = ports.User{ID: id, Username: "user-" + id}
	}
	return s
}

func (s *fakeStore) LoadUser(_ context.Context, id string) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) LoadAISquad(_ context.Context, difficulty string) (map[squad.Position]*squad.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.ai[difficulty]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return tpl, nil
}

func (s *fakeStore) CreditPoints(_ context.Context, id string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCred != nil {
		return s.failCred
	}
	s.points[id] += n
	s.credits++
	return nil
}

func (s *fakeStore) CreditCurrency(_ context.Context, id string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCred != nil {
		return s.failCred
	}
	s.currency[id] += n
	s.credits++
	return nil
}

func (s *fakeStore) snapshot() (map[string]int, map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, c := map[string]int{}, map[string]int{}
	for k, v := range s.points {
		p[k] = v
	}
	for k, v := range s.currency {
		c[k] = v
	}
	return p, c
}

type fakeSquads struct {
	mu     sync.Mutex
	squads map[string]*squad.Squad
	err    error
}

func (f *fakeSquads) Get(_ context.Context, owner string) (*squad.Squad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.squads[owner]; ok {
		return s, nil
	}
	return squad.NewAISquad(nil), nil
}

func (f *fakeSquads) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func classFor(pos squad.Position) squad.Class {
	switch pos {
	case squad.GK:
		return squad.ClassGK
	case squad.CB1, squad.CB2, squad.CB3:
		return squad.ClassCB
	case squad.MID1, squad.MID2, squad.MID3, squad.EXTRA:
		return squad.ClassMID
	}
	return squad.ClassFRW
}

func template(team, rating int) map[squad.Position]*squad.Player {
	out := map[squad.Position]*squad.Player{}
	for i, pos := range squad.Positions {
		out[pos] = &squad.Player{ID: i + 1, Name: string(pos), TeamID: team, Class: classFor(pos), Rating: rating}
	}
	return out
}

// seqSource replays draws in order, cycling.
type seqSource struct {
	mu   sync.Mutex
	vals []float64
	i    int
}

func (s *seqSource) Draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}
