package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/ui"
)

// codeUnknownMessage is Discord's error for an edited message that no longer exists.
const codeUnknownMessage = 10008

// ErrMessageGone is returned when the edited message was deleted.
var ErrMessageGone = errors.New("discord message no longer exists")

// session is the subset of *discordgo.Session the messenger uses.
type session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Messenger posts engine output to Discord channels and DMs.
type Messenger struct {
	s session
}

var _ ports.Messenger = (*Messenger)(nil)

func NewMessenger(s session) *Messenger {
	return &Messenger{s: s}
}

func (m *Messenger) SendText(ctx context.Context, chatID, text string, controls []ports.Control) (string, error) {
	msg, err := m.s.ChannelMessageSendComplex(chatID, &discordgo.MessageSend{
		Content:    text,
		Components: ui.Components(controls),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (m *Messenger) EditText(ctx context.Context, chatID, messageID, text string, controls []ports.Control) error {
	comps := ui.Components(controls)
	_, err := m.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    chatID,
		ID:         messageID,
		Content:    &text,
		Components: &comps,
	}, discordgo.WithContext(ctx))
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Message != nil && re.Message.Code == codeUnknownMessage {
		return ErrMessageGone
	}
	return err
}

// NotifyUser sends a DM. Users with closed DMs make this fail; callers treat
// it as best effort.
func (m *Messenger) NotifyUser(ctx context.Context, userID, text string) error {
	ch, err := m.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = m.s.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx))
	return err
}
