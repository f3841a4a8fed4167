package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Token   string
	AppID   string
	GuildID string // empty registers commands globally

	DatabaseURL   string
	MigrationsDir string
	HTTPAddr      string // "off" disables the ops HTTP server
	Env           string

	ChallengeTimeout time.Duration
	RoundDelay       time.Duration
	ShootoutScope    string // "chat" or "global"
	AdminRoleIDs     []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Token:         os.Getenv("DISCORD_BOT_TOKEN"),
		AppID:         os.Getenv("DISCORD_APP_ID"),
		GuildID:       os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		HTTPAddr:      getEnv("HTTP_ADDR", "127.0.0.1:8080"),
		Env:           getEnv("APP_ENV", "prod"),
		ShootoutScope: getEnv("SHOOTOUT_SCOPE", "chat"),
		AdminRoleIDs:  splitList(os.Getenv("ADMIN_ROLE_IDS")),
	}

	if strings.EqualFold(cfg.HTTPAddr, "off") {
		cfg.HTTPAddr = ""
	}

	var err error
	if cfg.ChallengeTimeout, err = getEnvAsDuration("PVP_CHALLENGE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.RoundDelay, err = getEnvAsDuration("PVP_ROUND_DELAY", time.Second); err != nil {
		return nil, err
	}

	if cfg.Token == "" {
		return nil, errors.New("missing DISCORD_BOT_TOKEN")
	}
	if cfg.AppID == "" {
		return nil, errors.New("missing DISCORD_APP_ID")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("missing DATABASE_URL")
	}
	if cfg.ChallengeTimeout <= 0 {
		return nil, errors.New("PVP_CHALLENGE_TIMEOUT must be positive")
	}
	return cfg, nil
}

// Logger builds the process logger. APP_ENV=dev gives readable console output.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.Env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected duration, got %q", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Redacted() string {
	tok := "[set]"
	if c.Token == "" {
		tok = "[empty]"
	}
	return fmt.Sprintf(
		"appID=%s guildID=%s env=%s http=%q shootoutScope=%s challengeTimeout=%s roundDelay=%s adminRoles=%d token=%s",
		c.AppID, c.GuildID, c.Env, c.HTTPAddr, c.ShootoutScope, c.ChallengeTimeout, c.RoundDelay, len(c.AdminRoleIDs), tok,
	)
}
