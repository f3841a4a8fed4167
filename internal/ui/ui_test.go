package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/pvp"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

func TestComponents_RowsAndStyles(t *testing.T) {
	var controls []ports.Control
	for i := 0; i < 7; i++ {
		controls = append(controls, ports.Control{Label: "x", Payload: "p", Style: ports.StyleDanger})
	}
	rows := Components(controls)
	if len(rows) != 2 {
		t.Fatalf("rows: %d", len(rows))
	}
	first := rows[0].(discordgo.ActionsRow)
	if len(first.Components) != 5 {
		t.Fatalf("first row: %d buttons", len(first.Components))
	}
	if b := first.Components[0].(discordgo.Button); b.Style != discordgo.DangerButton || b.CustomID != "p" {
		t.Fatalf("button: %+v", b)
	}
}

func TestComponents_EmptyClears(t *testing.T) {
	rows := Components(nil)
	if rows == nil || len(rows) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", rows)
	}
}

func TestSquadEmbed(t *testing.T) {
	s := squad.NewAISquad(map[squad.Position]*squad.Player{
		squad.GK: {Name: "Keeper", Class: squad.ClassGK, Rating: 88, Category: "gold"},
	})
	emb := SquadEmbed("alice", s.Snapshot())
	if !strings.Contains(emb.Description, "Keeper 🥇 (88)") {
		t.Fatalf("description: %q", emb.Description)
	}
	if !strings.Contains(emb.Description, "EXTRA**: _empty_") {
		t.Fatalf("empty slot missing: %q", emb.Description)
	}
	if emb.Fields[0].Value != "88" {
		t.Fatalf("rating field: %q", emb.Fields[0].Value)
	}
}

func TestStatusEmbed(t *testing.T) {
	if emb := StatusEmbed(nil, nil); !strings.Contains(emb.Description, "Nothing running") {
		t.Fatalf("idle: %q", emb.Description)
	}
	emb := StatusEmbed(&pvp.View{ChallengerName: "A", OpponentName: "B", Started: true, Round: 3, ChallengerGoals: 2, CreatedAt: time.Now()}, nil)
	if len(emb.Fields) != 1 || !strings.Contains(emb.Fields[0].Value, "round 3/5") {
		t.Fatalf("fields: %+v", emb.Fields)
	}
}

func TestHumanSince(t *testing.T) {
	if got := humanSince(time.Now().Add(-90 * time.Minute)); got != "1h 30m ago" {
		t.Fatalf("got %q", got)
	}
}
