package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/api"
	"github.com/meikuraledutech/workflow/internal/config"
	"github.com/meikuraledutech/workflow/internal/logging"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/meikuraledutech/workflow/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error", "text", os.Stderr).Error("configuration failed", "error", err)
		os.Exit(2)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	var repo workflow.Repository
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, workflows are kept in memory")
		repo = memory.New()
	} else {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store := postgres.New(pool)
		if err := store.CreateSchema(context.Background()); err != nil {
			logger.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		repo = store
	}

	app := api.New(repo, logger)
	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
