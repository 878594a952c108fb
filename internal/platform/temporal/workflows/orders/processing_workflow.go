package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-order-processor/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-order-processor/internal/platform/temporal/sequences"
)

const (
	// ProcessingWorkflowName is the public identifier for registering the workflow.
	ProcessingWorkflowName = "orders.workflows.Processing"
	// ProcessingTaskQueue is the queue consumed by the worker processing orders.
	ProcessingTaskQueue = "ORDER_PROCESSING"
)

// ProcessingWorkflowInput carries the order to process and the caller's trace id.
type ProcessingWorkflowInput struct {
	OrderID int64
	TraceID string
}

// ProcessingWorkflow runs an order through the product rules.
func ProcessingWorkflow(ctx workflow.Context, input ProcessingWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ProcessingWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	order, err := sequences.RunOrderProcessingSequence(ctx, orderactivities.ProcessOrderInput{OrderID: input.OrderID})
	if err != nil {
		logger.Error("ProcessingWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("ProcessingWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
