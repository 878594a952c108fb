package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	redislocking "github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/locking/redis"
	ordersmemory "github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/notifications"
	ordersobs "github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-order-processor/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-order-processor/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-order-processor/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-order-processor/internal/platform/redis"
)

// BuildOrderService wires the order processor with the backends cfg points at,
// falling back to in-memory storage, in-process locks and log notifications.
// The returned cleanup closes every opened connection.
func BuildOrderService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repo, closeRepo := buildOrderRepository(ctx, cfg, logger)
	cleanups = append(cleanups, closeRepo)

	notifier, closeNotifier := buildNotifier(cfg, logger)
	cleanups = append(cleanups, closeNotifier)

	opts := []ordersapp.Option{ordersapp.WithLogger(logger)}
	rdb, closeRedis := platformredis.ConnectOrFallback(ctx, cfg.RedisAddr, cfg.RedisDB, logger)
	cleanups = append(cleanups, closeRedis)
	if rdb != nil {
		opts = append(opts, ordersapp.WithLocker(redislocking.NewLocker(rdb, redislocking.WithTTL(cfg.ProductLockTTL))))
	}

	rules := ordersapp.DefaultRules(ordersapp.RuleDependencies{Products: repo, Notifier: notifier})
	core := ordersapp.NewOrderProcessor(repo, ordersapp.NewRuleSelector(rules...), opts...)
	service := ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Repository, func()) {
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return ordersmemory.NewRepository(), closeDB
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), closeDB
}

func buildNotifier(cfg Config, logger *slog.Logger) (ordersports.Notifier, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, notifications are written to the log")
		return notifications.NewLogNotifier(logger), func() {}
	}
	notifier := notifications.NewKafkaNotifier(cfg.KafkaBrokers, cfg.NotificationTopic)
	logger.Info("notifications published to kafka", slog.String("topic", cfg.NotificationTopic))
	return notifier, func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("failed to close kafka notifier", slog.String("error", err.Error()))
		}
	}
}

// ConnectTemporalClient dials Temporal with tracing and the process logger installed.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
