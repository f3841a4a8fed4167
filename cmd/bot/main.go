// Command bot starts the discord bot process.
//
// this binary:
//  1. loads config from environment variables (.env during dev)
//  2. connects to postgres and builds the match engines
//  3. creates a discord session and registers the app handlers
//  4. serves the ops HTTP endpoints
//  5. opens the gateway and waits for a signal from the OS to exit
package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	disc "github.com/jose-valero/pitchduel-bot/internal/adapters/discord"
	"github.com/jose-valero/pitchduel-bot/internal/app"
	"github.com/jose-valero/pitchduel-bot/internal/domain/events"
	"github.com/jose-valero/pitchduel-bot/internal/httpapi"
	"github.com/jose-valero/pitchduel-bot/internal/pvp"
	"github.com/jose-valero/pitchduel-bot/internal/shootout"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
	"github.com/jose-valero/pitchduel-bot/internal/storage/postgres"
	"github.com/jose-valero/pitchduel-bot/pkg/config"
)

func main() {
	// load .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	events.SetLogger(logger)

	scope, err := shootout.ParseScope(cfg.ShootoutScope)
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer store.Close()

	// the prefix "Bot " is required for bot tokens
	sess, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		logger.Fatal("discord session", zap.Error(err))
	}
	// slash commands and buttons only need the guilds intent
	sess.Identify.Intents = discordgo.IntentsGuilds

	messenger := disc.NewMessenger(sess)
	squads := squad.NewCache(store, logger)
	matches := pvp.New(
		pvp.Config{ChallengeTimeout: cfg.ChallengeTimeout, RoundDelay: cfg.RoundDelay},
		store, squads, messenger,
		pvp.NewSource(rand.New(rand.NewSource(time.Now().UnixNano()))),
		logger,
	)
	shootouts := shootout.New(scope, store, messenger, logger)
	results := app.NewResults()

	router := app.NewRouter(app.RouterDeps{
		Context:   ctx,
		PvP:       matches,
		Shootouts: shootouts,
		Squads:    squads,
		Users:     store,
		Policy:    disc.NewPolicy(cfg.AdminRoleIDs),
		Logger:    logger,
	})
	b := app.NewBot(sess, cfg, router, results, logger)
	defer b.Stop()

	// handlers go in before the gateway opens so Ready is not missed
	if err := b.RegisterHandlers(); err != nil {
		logger.Error("register commands", zap.Error(err))
	}

	// open websocket gateway
	if err := sess.Open(); err != nil {
		logger.Fatal("open gateway", zap.Error(err))
	}
	defer sess.Close()

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		if cfg.Env != "dev" {
			gin.SetMode(gin.ReleaseMode)
		}
		api := httpapi.NewServer(httpapi.Dependencies{
			DB:        store,
			Matches:   matches,
			Shootouts: shootouts,
			Results:   results,
			Logger:    logger,
		})
		srv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("ops http listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops http", zap.Error(err))
			}
		}()
	}

	logger.Info("🤖 bot ready", zap.String("config", cfg.Redacted()))

	// block the process till SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops http shutdown", zap.Error(err))
		}
	}
}
