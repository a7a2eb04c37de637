package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/sukalov/hymnal/internal/bot"
	"github.com/sukalov/hymnal/internal/bot/admin"
	"github.com/sukalov/hymnal/internal/config"
	"github.com/sukalov/hymnal/internal/db"
	"github.com/sukalov/hymnal/internal/hymns"
	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/lyrics"
	"github.com/sukalov/hymnal/internal/redis"
	"github.com/sukalov/hymnal/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabaseToken)
	if err != nil {
		return err
	}
	defer database.Close()

	store := db.NewStore(database)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	cache, err := redis.NewDBManager(cfg.RedisURL, cfg.RedisPassword, cfg.DraftTTL)
	if err != nil {
		return err
	}
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	service := hymns.NewService(store, cache)

	if cfg.BotToken != "" {
		adminBot, err := bot.New("admin", cfg.BotToken)
		if err != nil {
			return err
		}
		if cfg.LogChannelID != 0 {
			logger.Init(adminBot, cfg.LogChannelID)
		}
		admin.SetupHandlers(ctx, adminBot, service, cfg.AdminUsernames, &admin.RebuildHook{
			URL:   cfg.RebuildHookURL,
			Token: cfg.GitHubToken,
		})
	}

	if cfg.AdminToken == "" {
		logger.Info("ADMIN_TOKEN is not set, admin routes are disabled")
	}

	srv := server.New(service, cache, lyrics.NewService(), cfg.AdminToken)
	return logger.LogWithErr("HTTP server stopped", srv.Run(ctx, cfg.HTTPAddr))
}
