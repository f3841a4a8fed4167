package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

// Runs against a migrated database when PITCHDUEL_TEST_DATABASE_URL is set.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("PITCHDUEL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PITCHDUEL_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStore_UserLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id) })

	if _, err := s.LoadUser(ctx, id); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("missing user: %v", err)
	}
	if err := s.CreditPoints(ctx, id, 10); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("credit missing user: %v", err)
	}

	if err := s.EnsureUser(ctx, id, "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureUser(ctx, id, "renamed"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreditPoints(ctx, id, 100); err != nil {
		t.Fatal(err)
	}
	if err := s.CreditCurrency(ctx, id, 50); err != nil {
		t.Fatal(err)
	}

	u, err := s.LoadUser(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "renamed" || u.Points != 100 || u.Currency != 50 {
		t.Fatalf("user = %+v", u)
	}
}

func TestStore_SquadSlots(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id) })

	if err := s.EnsureUser(ctx, id, "owner"); err != nil {
		t.Fatal(err)
	}
	var playerID int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO players (name, position, rating) VALUES ('Test Keeper', 'GK', 77) RETURNING id
	`).Scan(&playerID)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		// the user's rows reference the player
		_, _ = s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		_, _ = s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, playerID)
	})

	if _, err := s.LoadOwnedPlayer(ctx, id, playerID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("unowned player: %v", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO user_players (user_id, player_id) VALUES ($1, $2)`, id, playerID); err != nil {
		t.Fatal(err)
	}
	p, err := s.LoadOwnedPlayer(ctx, id, playerID)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.PersistSlot(ctx, id, squad.GK, p); err != nil {
		t.Fatal(err)
	}
	slots, err := s.LoadSquad(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got := slots[squad.GK]; got == nil || got.ID != playerID || got.Class != squad.ClassGK {
		t.Fatalf("GK = %+v", got)
	}

	if err := s.PersistSlot(ctx, id, squad.GK, nil); err != nil {
		t.Fatal(err)
	}
	slots, err = s.LoadSquad(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Fatalf("cleared squad still has %d slots", len(slots))
	}
}
