//go:build integration

// Package testutil starts throwaway postgres and redis containers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/qaforum/pkg/database"
)

// StartPostgres runs a migrated postgres container. Call the returned func to terminate it.
func StartPostgres(ctx context.Context) (*gorm.DB, func(), error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("qaforum_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}
	terminate := func() { _ = container.Terminate(context.Background()) }

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("postgres connection string: %w", err)
	}

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("open gorm: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		terminate()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return db, terminate, nil
}

// StartRedis runs a redis container and returns a connected client.
func StartRedis(ctx context.Context) (*goredis.Client, func(), error) {
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, nil, fmt.Errorf("start redis container: %w", err)
	}
	terminate := func() { _ = container.Terminate(context.Background()) }

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("redis endpoint: %w", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		terminate()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, func() {
		_ = client.Close()
		terminate()
	}, nil
}

// Truncate empties every table between tests.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE votes, notifications, comments, answers, post_tags, question_tags, posts, questions, tags, users RESTART IDENTITY CASCADE`).Error
}
