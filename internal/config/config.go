package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sukalov/hymnal/internal/utils"
)

type Config struct {
	DatabaseURL    string
	DatabaseToken  string
	RedisURL       string
	RedisPassword  string
	HTTPAddr       string
	AdminToken     string
	BotToken       string
	LogChannelID   int64
	AdminUsernames []string
	DraftTTL       time.Duration
	RebuildHookURL string
	GitHubToken    string
}

// Load reads the configuration from the environment and .env.
func Load() (*Config, error) {
	env, err := utils.LoadEnv([]string{"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN", "REDIS_URL", "REDIS_PASSWORD"})
	if err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:    env["TURSO_DATABASE_URL"],
		DatabaseToken:  env["TURSO_AUTH_TOKEN"],
		RedisURL:       env["REDIS_URL"],
		RedisPassword:  env["REDIS_PASSWORD"],
		HTTPAddr:       utils.GetEnv("HTTP_ADDR", ":8080"),
		AdminToken:     utils.GetEnv("ADMIN_TOKEN", ""),
		BotToken:       utils.GetEnv("BOT_TOKEN", ""),
		AdminUsernames: utils.SplitList(utils.GetEnv("ADMIN_USERNAMES", "")),
		RebuildHookURL: utils.GetEnv("GITHUB_REDEPLOY_HOOK", ""),
		GitHubToken:    utils.GetEnv("GITHUB_PAT_TOKEN", ""),
	}

	if raw := utils.GetEnv("LOG_CHANNEL_ID", ""); raw != "" {
		cfg.LogChannelID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
		}
	}

	cfg.DraftTTL, err = time.ParseDuration(utils.GetEnv("DRAFT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DRAFT_TTL: %w", err)
	}

	return cfg, nil
}
