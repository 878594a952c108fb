package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-processor/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-order-processor/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-order-processor/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-order-processor/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-processor-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanup := api.BuildOrderService(ctx, cfg, instruments)
	defer cleanup()
	orderActivities := orderactivities.NewActivities(orderService)

	// the worker has nothing to do without Temporal
	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.ProcessingTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.ProcessingWorkflow, workflow.RegisterOptions{Name: orderworkflows.ProcessingWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.ProcessOrder, activity.RegisterOptions{Name: orderactivities.ProcessOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.ProcessingTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
