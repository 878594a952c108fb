package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// Connect opens a Redis client and verifies connectivity.
func Connect(ctx context.Context, addr string, db int) (*rd.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := rd.NewClient(&rd.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOrFallback returns nil with a no-op cleanup when addr is empty or unreachable,
// leaving product locking in-process.
func ConnectOrFallback(ctx context.Context, addr string, db int, logger *slog.Logger) (*rd.Client, func()) {
	if strings.TrimSpace(addr) == "" {
		if logger != nil {
			logger.Warn("REDIS_ADDR not set, product locks are local to this process")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, addr, db)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, product locks are local to this process", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", addr))
	}
	return client, func() { _ = client.Close() }
}
