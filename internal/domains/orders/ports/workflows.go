package ports

import (
	"context"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs order processing, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	ProcessOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}
