package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/application"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

const (
	// ProcessOrderActivityName runs the product rules for one order.
	ProcessOrderActivityName = "orders.activities.ProcessOrder"
)

// Application error types carried across the Temporal boundary.
const (
	ErrTypeOrderNotFound  = "OrderNotFound"
	ErrTypeInvalidOrderID = "InvalidOrderID"
	ErrTypeNoHandler      = "NoHandler"
)

// ProcessOrderInput identifies the order to process.
type ProcessOrderInput struct {
	OrderID int64
}

// NoHandlerDetails is attached to NoHandler failures so callers can rebuild the typed error.
type NoHandlerDetails struct {
	ProductID int64
	Type      domain.ProductType
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// ProcessOrder delegates to the order service. Domain failures are returned as
// non-retryable application errors: a rerun would apply stock changes twice.
func (a *Activities) ProcessOrder(ctx context.Context, input ProcessOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order processing activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order processing activity not initialized")
	}
	logger.Info("ProcessOrder activity started", "orderId", input.OrderID)
	order, err := a.service.ProcessOrder(ctx, input.OrderID)
	if err != nil {
		logger.Error("ProcessOrder activity failed", "orderId", input.OrderID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("ProcessOrder activity completed", "orderId", order.ID, "products", len(order.Products))
	return order, nil
}

func toApplicationError(err error) error {
	var (
		validation *application.ValidationError
		notFound   *application.OrderNotFoundError
		noHandler  *application.NoHandlerError
	)
	switch {
	case errors.As(err, &validation):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidOrderID, err)
	case errors.As(err, &notFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeOrderNotFound, err)
	case errors.As(err, &noHandler):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNoHandler, err,
			NoHandlerDetails{ProductID: noHandler.ProductID, Type: noHandler.Type})
	default:
		return err
	}
}
