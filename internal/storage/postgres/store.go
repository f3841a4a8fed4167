package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureUser registers a user on first contact and keeps the name fresh.
func (s *Store) EnsureUser(ctx context.Context, id, username string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
	`, id, username)
	return err
}

func (s *Store) LoadUser(ctx context.Context, id string) (ports.User, error) {
	var u ports.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, points, dollars
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Points, &u.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.User{}, ports.ErrNotFound
	}
	return u, err
}

const playerColumns = `
	p.id, p.name, COALESCE(p.team_id, 0), p.position, p.rating, COALESCE(c.name, '')`

func scanPlayer(row pgx.Row) (*squad.Player, error) {
	var p squad.Player
	var class string
	if err := row.Scan(&p.ID, &p.Name, &p.TeamID, &class, &p.Rating, &p.Category); err != nil {
		return nil, err
	}
	p.Class = squad.Class(class)
	return &p, nil
}

func (s *Store) LoadSquad(ctx context.Context, ownerID string) (map[squad.Position]*squad.Player, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT us.position,`+playerColumns+`
		FROM user_squads us
		JOIN players p ON p.id = us.player_id
		LEFT JOIN player_categories c ON c.id = p.category_id
		WHERE us.user_id = $1
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[squad.Position]*squad.Player{}
	for rows.Next() {
		var pos string
		var p squad.Player
		var class string
		if err := rows.Scan(&pos, &p.ID, &p.Name, &p.TeamID, &class, &p.Rating, &p.Category); err != nil {
			return nil, err
		}
		p.Class = squad.Class(class)
		out[squad.Position(pos)] = &p
	}
	return out, rows.Err()
}

// PersistSlot writes one slot. A nil player stores an empty slot.
func (s *Store) PersistSlot(ctx context.Context, ownerID string, pos squad.Position, p *squad.Player) error {
	var playerID *int
	if p != nil {
		playerID = &p.ID
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_squads (user_id, position, player_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, position) DO UPDATE SET player_id = EXCLUDED.player_id
	`, ownerID, string(pos), playerID)
	return err
}

// LoadOwnedPlayer returns the player only if userID owns a copy of it.
func (s *Store) LoadOwnedPlayer(ctx context.Context, userID string, playerID int) (*squad.Player, error) {
	p, err := scanPlayer(s.pool.QueryRow(ctx, `
		SELECT`+playerColumns+`
		FROM user_players up
		JOIN players p ON p.id = up.player_id
		LEFT JOIN player_categories c ON c.id = p.category_id
		WHERE up.user_id = $1 AND up.player_id = $2
		LIMIT 1
	`, userID, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	return p, err
}

// LoadAISquad picks a random stored template for the difficulty.
func (s *Store) LoadAISquad(ctx context.Context, difficulty string) (map[squad.Position]*squad.Player, error) {
	ids := make([]*int, len(squad.Positions))
	dest := make([]any, len(ids))
	for i := range ids {
		dest[i] = &ids[i]
	}
	err := s.pool.QueryRow(ctx, `
		SELECT s.gk, s.cb1, s.cb2, s.cb3, s.mid1, s.mid2, s.mid3, s.frw1, s.frw2, s.frw3, s.extra
		FROM ai_squads s
		JOIN ai_difficulty_categories d ON d.id = s.difficulty_id
		WHERE d.name = $1
		ORDER BY random()
		LIMIT 1
	`, difficulty).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	want := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			want = append(want, *id)
		}
	}
	rows, err := s.pool.Query(ctx, `
		SELECT`+playerColumns+`
		FROM players p
		LEFT JOIN player_categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
	`, want)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[int]*squad.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := map[squad.Position]*squad.Player{}
	for i, id := range ids {
		if id == nil {
			continue
		}
		if p, ok := byID[*id]; ok {
			out[squad.Positions[i]] = p
		}
	}
	return out, nil
}

func (s *Store) CreditPoints(ctx context.Context, userID string, amount int) error {
	return s.credit(ctx, "points", userID, amount)
}

func (s *Store) CreditCurrency(ctx context.Context, userID string, amount int) error {
	return s.credit(ctx, "dollars", userID, amount)
}

// credit adds amount to one balance column inside a transaction.
func (s *Store) credit(ctx context.Context, column, userID string, amount int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s = %s + $1 WHERE id = $2`, column, column),
		amount, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return tx.Commit(ctx)
}
