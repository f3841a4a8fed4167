package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

type fakeStore struct {
	mu      sync.Mutex
	users   map[string]ports.User
	owned   map[string]map[int]*squad.Player
	slots   map[string]map[squad.Position]*squad.Player
	ai      map[string]map[squad.Position]*squad.Player
	failGet error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]ports.User{},
		owned: map[string]map[int]*squad.Player{},
		slots: map[string]map[squad.Position]*squad.Player{},
		ai:    map[string]map[squad.Position]*squad.Player{},
	}
}

func (f *fakeStore) EnsureUser(_ context.Context, id, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		f.users[id] = ports.User{ID: id, Username: username}
	}
	return nil
}

func (f *fakeStore) LoadUser(_ context.Context, id string) (ports.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return ports.User{}, f.failGet
	}
	u, ok := f.users[id]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) LoadOwnedPlayer(_ context.Context, userID string, playerID int) (*squad.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.owned[userID][playerID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) give(userID string, p *squad.Player) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owned[userID] == nil {
		f.owned[userID] = map[int]*squad.Player{}
	}
	f.owned[userID][p.ID] = p
}

func (f *fakeStore) LoadSquad(_ context.Context, owner string) (map[squad.Position]*squad.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[squad.Position]*squad.Player{}
	for k, v := range f.slots[owner] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) PersistSlot(_ context.Context, owner string, pos squad.Position, p *squad.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slots[owner] == nil {
		f.slots[owner] = map[squad.Position]*squad.Player{}
	}
	f.slots[owner][pos] = p
	return nil
}

func (f *fakeStore) LoadAISquad(_ context.Context, difficulty string) (map[squad.Position]*squad.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.ai[difficulty]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) CreditPoints(context.Context, string, int) error   { return nil }
func (f *fakeStore) CreditCurrency(context.Context, string, int) error { return nil }

type fakeMessenger struct {
	mu    sync.Mutex
	n     int
	texts []string
}

func (f *fakeMessenger) SendText(_ context.Context, _ string, text string, _ []ports.Control) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	f.texts = append(f.texts, text)
	return fmt.Sprintf("msg-%d", f.n), nil
}

func (f *fakeMessenger) EditText(_ context.Context, _, _, text string, _ []ports.Control) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) NotifyUser(context.Context, string, string) error { return nil }

type response struct {
	kind      discordgo.InteractionResponseType
	content   string
	ephemeral bool
	embeds    int
}

type fakeResponder struct {
	mu        sync.Mutex
	responses []response
	followups []string
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := response{kind: resp.Type}
	if resp.Data != nil {
		r.content = resp.Data.Content
		r.ephemeral = resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
		r.embeds = len(resp.Data.Embeds)
	}
	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeResponder) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data.Content)
	return &discordgo.Message{}, nil
}

func (f *fakeResponder) last() response {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return response{}
	}
	return f.responses[len(f.responses)-1]
}

type fixedSource float64

func (s fixedSource) Draw() float64 { return float64(s) }
