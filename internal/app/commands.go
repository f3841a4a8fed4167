package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

var difficulties = []string{"easy", "medium", "hard"}

func choices(values []string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return out
}

func positionNames() []string {
	out := make([]string, 0, len(squad.Positions))
	for _, p := range squad.Positions {
		out = append(out, string(p))
	}
	return out
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "pvp",
		Description: "Challenge another player to a squad match",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "opponent",
			Description: "Who you want to play",
			Required:    true,
		}},
	},
	{
		Name:        "pvpai",
		Description: "Play a squad match against the computer",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "difficulty",
			Description: "AI difficulty",
			Required:    true,
			Choices:     choices(difficulties),
		}},
	},
	{
		Name:        "pvpcancel",
		Description: "Cancel the match running in this channel (admins)",
	},
	{
		Name:        "penalty",
		Description: "Challenge another player to a penalty shootout",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "opponent",
			Description: "Who takes the other end",
			Required:    true,
		}},
	},
	{
		Name:        "penaltycancel",
		Description: "Cancel the penalty shootout in this channel (admins)",
	},
	{
		Name:        "squad",
		Description: "Show a squad",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Whose squad (defaults to yours)",
		}},
	},
	{
		Name:        "setslot",
		Description: "Put one of your players in a lineup slot",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "position",
				Description: "Lineup slot",
				Required:    true,
				Choices:     choices(positionNames()),
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "player_id",
				Description: "Player card id, 0 clears the slot",
				Required:    true,
			},
		},
	},
	{
		Name:        "status",
		Description: "Show what is running in this channel",
	},
}

// RegisterCommands creates (or updates) guild-level commands.
func RegisterCommands(s *discordgo.Session, appID, guildID string) error {
	for _, c := range commands {
		if _, err := s.ApplicationCommandCreate(appID, guildID, c); err != nil {
			return fmt.Errorf("register /%s: %w", c.Name, err)
		}
	}
	return nil
}
