package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"anoa.com/qaforum/internal/config"
	"anoa.com/qaforum/internal/server"
	"anoa.com/qaforum/pkg/cache"
	"anoa.com/qaforum/pkg/database"
	"anoa.com/qaforum/pkg/logger"
	"anoa.com/qaforum/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.Database, cfg.IsDevelopment(), log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// Redis is optional: without it tallies are always read from postgres.
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, vote tally cache disabled", zap.Error(err))
		redisClient = nil
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	srv := server.NewServer(cfg, server.Deps{
		DB:          db,
		RedisClient: redisClient,
		MeiliClient: meiliClient,
		Registry:    metrics.NewRegistry(),
		Clock:       clockwork.NewRealClock(),
		Logger:      log,
	})

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info("server stopped")
}
