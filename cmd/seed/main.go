package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-order-processor/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-order-processor/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed orders")
	}

	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	if err := migrations.Seed(ctx, db, time.Now()); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	log.Printf("order catalog seeded")
}
