// internal/ui/components.go
// Turns engine controls into Discord button rows.

package ui

import (
	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
)

// Discord allows at most 5 buttons per row and 5 rows per message.
const (
	maxPerRow = 5
	maxRows   = 5
)

var buttonStyles = map[ports.ControlStyle]discordgo.ButtonStyle{
	ports.StylePrimary:   discordgo.PrimaryButton,
	ports.StyleSecondary: discordgo.SecondaryButton,
	ports.StyleSuccess:   discordgo.SuccessButton,
	ports.StyleDanger:    discordgo.DangerButton,
}

// Components renders controls as button rows. No controls yields an empty,
// non-nil slice so an edit clears existing buttons.
func Components(controls []ports.Control) []discordgo.MessageComponent {
	rows := []discordgo.MessageComponent{}
	for start := 0; start < len(controls) && len(rows) < maxRows; start += maxPerRow {
		end := start + maxPerRow
		if end > len(controls) {
			end = len(controls)
		}
		btns := make([]discordgo.MessageComponent, 0, end-start)
		for _, c := range controls[start:end] {
			style, ok := buttonStyles[c.Style]
			if !ok {
				style = discordgo.PrimaryButton
			}
			btns = append(btns, discordgo.Button{
				Label:    c.Label,
				Style:    style,
				CustomID: c.Payload,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: btns})
	}
	return rows
}
