package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-order-processor/internal/platform/temporal/activities/orders"
)

// RunOrderProcessingSequence executes the single processing activity without retries.
func RunOrderProcessingSequence(ctx workflow.Context, input orderactivities.ProcessOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order processing sequence started", "orderId", input.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.ProcessOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order processing sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order processing sequence completed", "orderId", order.ID)
	return &order, nil
}
