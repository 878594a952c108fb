package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

// ProductWriter persists a full product row by identifier.
type ProductWriter interface {
	UpdateProduct(ctx context.Context, product *domain.Product) error
}

// Repository reads orders with their products and writes product rows back.
type Repository interface {
	ProductWriter
	// FindOrderWithProducts loads the order and its joined products in one read.
	FindOrderWithProducts(ctx context.Context, orderID int64) (*domain.Order, error)
	FindProductByID(ctx context.Context, id int64) (*domain.Product, error)
}
