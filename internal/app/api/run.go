package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	orderserver "github.com/Apurer/go-gin-order-processor/go"

	ordersworkflows "github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-order-processor/internal/platform/observability"
)

// Run boots the order processing HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "order-processor-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanup := BuildOrderService(ctx, cfg, instruments)
	defer cleanup()

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, processing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI: orderserver.NewOrderAPI(orderService, orderWorkflows),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	orderserver.NewRouterWithGinEngine(router, handlers)
	addr := ":" + cfg.Port
	logger.Info("order processing API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order processing API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
