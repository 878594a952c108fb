package ports

import (
	"context"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
)

// Service exposes order processing to adapters.
type Service interface {
	ProcessOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}
