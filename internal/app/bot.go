package app

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/jose-valero/pitchduel-bot/pkg/config"
)

type Bot struct {
	Sess      *discordgo.Session
	Cfg       *config.Config
	router    *Router
	results   *Results
	log       *zap.Logger
	cancelBus func()
}

func NewBot(s *discordgo.Session, cfg *config.Config, router *Router, results *Results, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{Sess: s, Cfg: cfg, router: router, results: results, log: log.Named("bot")}
}

func (b *Bot) RegisterHandlers() error {
	// 1) interactions (slash + buttons)
	b.Sess.AddHandler(b.router.HandleInteraction)

	b.Sess.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.log.Info("gateway ready", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
	})

	// 2) bus subscribers feed the results list
	b.cancelBus = b.StartEventSubscribers()

	// 3) register/update slash commands
	return RegisterCommands(b.Sess, b.Cfg.AppID, b.Cfg.GuildID)
}

// Stop unsubscribes from the bus.
func (b *Bot) Stop() {
	if b.cancelBus != nil {
		b.cancelBus()
	}
}
