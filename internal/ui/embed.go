package ui

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pitchduel-bot/internal/pvp"
	"github.com/jose-valero/pitchduel-bot/internal/shootout"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

const (
	colorSquad  = 0x2ECC71
	colorStatus = 0x3498DB
)

// SquadEmbed lists every slot with its occupant plus the derived ratings.
func SquadEmbed(owner string, l squad.Lineup) *discordgo.MessageEmbed {
	var b strings.Builder
	for i, pos := range squad.Positions {
		fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, pos, formatPlayer(l.Get(pos)))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚽ %s's squad", safe(owner)),
		Description: b.String(),
		Color:       colorSquad,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rating", Value: fmt.Sprintf("%d", l.TotalRating()), Inline: true},
			{Name: "Attack", Value: fmt.Sprintf("%.1f", l.AttackScore()), Inline: true},
			{Name: "Defense", Value: fmt.Sprintf("%.1f", l.DefenseScore()), Inline: true},
			{Name: "Chemistry", Value: l.ChemistryDescription()},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d/11 slots filled • /setslot to change", l.Filled()),
		},
	}
}

// StatusEmbed shows what is running in a channel.
func StatusEmbed(m *pvp.View, s *shootout.View) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{Title: "🏟️ Channel status", Color: colorStatus}
	if m == nil && s == nil {
		emb.Description = "Nothing running. Try `/pvp`, `/pvpai` or `/penalty`."
		return emb
	}
	if m != nil {
		state := "⏳ waiting for an answer"
		if m.Started {
			state = fmt.Sprintf("round %d/%d", m.Round, pvp.MaxRounds)
		}
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name: "PvP match",
			Value: fmt.Sprintf("%s **%d : %d** %s\n%s • started %s",
				safe(m.ChallengerName), m.ChallengerGoals, m.OpponentGoals, safe(m.OpponentName),
				state, humanSince(m.CreatedAt)),
		})
	}
	if s != nil {
		extra := ""
		if s.SuddenDeath {
			extra = " • ⚡ sudden death"
		}
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name: "Penalty shootout",
			Value: fmt.Sprintf("%s **%d : %d** %s\nkicks %d/%d%s",
				safe(s.Challenger), s.ChallengerGoals, s.OpponentGoals, safe(s.Opponent),
				s.ChallengerKicks, s.OpponentKicks, extra),
		})
	}
	return emb
}
