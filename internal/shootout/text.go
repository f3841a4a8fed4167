package shootout

import (
	"fmt"
	"strings"

	"github.com/jose-valero/pitchduel-bot/internal/callback"
	"github.com/jose-valero/pitchduel-bot/internal/ports"
)

const scope = "pen"

var dirLabels = map[Direction]string{
	Left:   "⬅️ Left",
	Center: "⬆️ Center",
	Right:  "➡️ Right",
}

func directionControls(g *game, verb string) []ports.Control {
	out := make([]ports.Control, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, ports.Control{
			Label:   dirLabels[d],
			Payload: callback.Encode(scope, verb, g.id, string(d)),
			Style:   ports.StyleSecondary,
		})
	}
	return out
}

func scoreLine(g *game) string {
	return fmt.Sprintf("🔢 %s %d : %d %s", g.players[challenger].Name, g.score(challenger), g.score(opponent), g.players[opponent].Name)
}

func kickPrompt(g *game, last string) string {
	var sb strings.Builder
	if last == "" {
		fmt.Fprintf(&sb, "🥅 **Penalty shootout: %s vs %s!**\n", g.players[challenger].Name, g.players[opponent].Name)
	} else {
		sb.WriteString(last + "\n")
		sb.WriteString(scoreLine(g) + "\n")
	}
	if g.suddenDeath() {
		sb.WriteString("⚡ Sudden death!\n")
	}
	fmt.Fprintf(&sb, "⚽ **%s**, pick where to shoot:", g.kicker().Name)
	return sb.String()
}

func savePrompt(g *game) string {
	return fmt.Sprintf("%s has picked a spot.\n🧤 **%s**, pick where to dive:", g.kicker().Name, g.keeper().Name)
}

func outcomeLine(kicker, keeper Participant, goal bool) string {
	if goal {
		return fmt.Sprintf("⚽ GOAL! %s scores.", kicker.Name)
	}
	return fmt.Sprintf("🧤 Saved! %s stops %s.", keeper.Name, kicker.Name)
}

func kickRow(goals []bool) string {
	marks := make([]string, len(goals))
	for i, scored := range goals {
		if scored {
			marks[i] = "⚽"
		} else {
			marks[i] = "❌"
		}
	}
	return strings.Join(marks, " ")
}

func resultText(g *game, winner int, last string, rewarded bool) string {
	var sb strings.Builder
	sb.WriteString(last + "\n\n")
	sb.WriteString("🏁 **Shootout over!**\n")
	fmt.Fprintf(&sb, "%s: %s\n", g.players[challenger].Name, kickRow(g.goals[challenger]))
	fmt.Fprintf(&sb, "%s: %s\n", g.players[opponent].Name, kickRow(g.goals[opponent]))
	sb.WriteString(scoreLine(g) + "\n")
	fmt.Fprintf(&sb, "🏆 %s wins!", g.players[winner].Name)
	if rewarded {
		fmt.Fprintf(&sb, " 🏅 Reward: %d points, %d coins", WinPoints, WinCurrency)
	}
	return sb.String()
}
