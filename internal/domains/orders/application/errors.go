package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// ErrInvalidProduct signals a stored product row violates its type's invariants.
var ErrInvalidProduct = errors.New("invalid product data")

// ValidationError reports an order id that is not a positive integer.
type ValidationError struct {
	OrderID int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order id %d: must be a positive integer", e.OrderID)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidOrderID }

// OrderNotFoundError reports that no order matches the requested id.
type OrderNotFoundError struct {
	OrderID int64
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.OrderID)
}

func (e *OrderNotFoundError) Unwrap() error { return ports.ErrOrderNotFound }

// NoHandlerError reports a product whose type matches no registered rule.
type NoHandlerError struct {
	ProductID int64
	Type      domain.ProductType
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler found for product type: %s (product %d)", e.Type, e.ProductID)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingSeasonWindow) ||
		errors.Is(err, domain.ErrMissingExpiryDate) ||
		errors.Is(err, domain.ErrInvertedSeason) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	return err
}
