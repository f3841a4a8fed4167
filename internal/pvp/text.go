package pvp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jose-valero/pitchduel-bot/internal/callback"
	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

const scope = "pvp"

func challengeText(m *match, timeoutSecs int) string {
	return fmt.Sprintf("**%s**, you have been challenged to a PvP match by **%s**! Accept? ⏳ (%d sec)",
		m.opponent.name, m.challenger.name, timeoutSecs)
}

func challengeControls(m *match) []ports.Control {
	return []ports.Control{
		{Label: "✅ Accept", Payload: callback.Encode(scope, "accept", m.id), Style: ports.StyleSuccess},
		{Label: "❌ Decline", Payload: callback.Encode(scope, "decline", m.id), Style: ports.StyleDanger},
	}
}

func roundControls(m *match, round int) []ports.Control {
	return []ports.Control{{
		Label:   fmt.Sprintf("▶️ Round %d", round),
		Payload: callback.Encode(scope, "round", m.id, strconv.Itoa(round)),
		Style:   ports.StylePrimary,
	}}
}

func kickoffText(m *match, a, b squad.Lineup) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚽ **%s vs %s**\n", m.challenger.name, m.opponent.name)
	fmt.Fprintf(&sb, "📊 %s: rating %d, %s\n", m.challenger.name, a.TotalRating(), a.ChemistryDescription())
	if m.ai {
		fmt.Fprintf(&sb, "📊 %s: rating %d\n", m.opponent.name, b.TotalRating())
	} else {
		fmt.Fprintf(&sb, "📊 %s: rating %d, %s\n", m.opponent.name, b.TotalRating(), b.ChemistryDescription())
	}
	sb.WriteString("🔢 Score: 0 : 0\n")
	sb.WriteString("⏱ Round 1 is about to start! 🚀")
	return sb.String()
}

type roundResult struct {
	round          int
	goalA, goalB   bool
	goalsA, goalsB int
	finished       bool
	rewarded       bool // credits succeeded; only set when finished
}

func roundText(m *match, a, b squad.Lineup, r roundResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚽ **%s vs %s**\n", m.challenger.name, m.opponent.name)
	fmt.Fprintf(&sb, "🔢 Score: **%d : %d**\n", r.goalsA, r.goalsB)
	sb.WriteString(a.ChemistryDescription() + "\n")
	if m.ai {
		sb.WriteString("AI squads have no chemistry\n")
	} else {
		sb.WriteString(b.ChemistryDescription() + "\n")
	}
	fmt.Fprintf(&sb, "⏱ Round %d:\n", r.round)
	if r.goalA {
		fmt.Fprintf(&sb, "⚽ %s scores!\n", m.challenger.name)
	} else {
		fmt.Fprintf(&sb, "🧤 %s blocks the shot!\n", m.opponent.name)
	}
	if r.goalB {
		fmt.Fprintf(&sb, "⚽ %s scores!\n", m.opponent.name)
	} else {
		fmt.Fprintf(&sb, "🧤 %s blocks the shot!\n", m.challenger.name)
	}
	if !r.finished {
		sb.WriteString("\nPress for the next round:")
		return sb.String()
	}

	sb.WriteString("\n🏆 Full time!\n")
	switch {
	case r.goalsA > r.goalsB:
		fmt.Fprintf(&sb, "%s wins! 🎉", m.challenger.name)
		if r.rewarded {
			fmt.Fprintf(&sb, "\n🏅 Reward: %d points, %d coins", WinPoints, WinCurrency)
		}
	case r.goalsB > r.goalsA:
		fmt.Fprintf(&sb, "%s wins! 🎉", m.opponent.name)
		if !m.ai && r.rewarded {
			fmt.Fprintf(&sb, "\n🏅 Reward: %d points, %d coins", WinPoints, WinCurrency)
		}
	default:
		sb.WriteString("It's a draw! 🤝")
		if !r.rewarded {
			break
		}
		if m.ai {
			fmt.Fprintf(&sb, "\n🏅 Reward: %d points", DrawPoints)
		} else {
			fmt.Fprintf(&sb, "\n🏅 Reward: %d points each", DrawPoints)
		}
	}
	return sb.String()
}
