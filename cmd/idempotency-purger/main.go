package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-commerce-api/internal/app/api"
	commercepostgres "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-commerce-api/internal/platform/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("idempotency key purge failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		return errors.New("POSTGRES_DSN not set or connection failed; cannot purge idempotency keys")
	}

	cutoff := time.Now().Add(-cfg.IdempotencyKeyTTL)
	purged, err := commercepostgres.NewIdempotencyStore(db).PurgeExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge idempotency keys: %w", err)
	}
	logger.Info("idempotency key purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
	return nil
}
