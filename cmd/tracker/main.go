package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AlekseiCherkes/spending-tracker/internal/bot"
	"github.com/AlekseiCherkes/spending-tracker/internal/config"
	"github.com/AlekseiCherkes/spending-tracker/internal/logging"
	"github.com/AlekseiCherkes/spending-tracker/internal/state"
	"github.com/AlekseiCherkes/spending-tracker/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("storage initialized", "database", cfg.SQLiteDBPath)

	tg, err := bot.NewTelegram(cfg.BotToken, cfg.PollTimeout, logger)
	if err != nil {
		logger.Error("failed to connect to telegram", "error", err)
		os.Exit(1)
	}

	b := bot.New(tg, repo, state.NewRegistry(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tg.Run(ctx, b)
	})

	logger.Info("spending tracker started", "poll_timeout", cfg.PollTimeout.String())
	if err := g.Wait(); err != nil {
		logger.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("spending tracker stopped gracefully")
}
