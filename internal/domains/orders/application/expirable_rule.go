package application

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// ExpirableProductHandler sells unexpired stock and withdraws the product otherwise.
type ExpirableProductHandler struct {
	products ports.ProductWriter
	notifier ports.Notifier
	now      func() time.Time
}

func NewExpirableProductHandler(products ports.ProductWriter, notifier ports.Notifier, now func() time.Time) *ExpirableProductHandler {
	return &ExpirableProductHandler{products: products, notifier: notifier, now: clockOrDefault(now)}
}

func (h *ExpirableProductHandler) CanHandle(product *domain.Product) bool {
	return product.Type == domain.ProductTypeExpirable
}

func (h *ExpirableProductHandler) ProcessOrder(ctx context.Context, product *domain.Product) error {
	if product.ExpiryDate == nil {
		return mapError(domain.ErrMissingExpiryDate)
	}
	if product.InStock() && !product.Expired(h.now()) {
		product.TakeOne()
		return h.products.UpdateProduct(ctx, product)
	}

	if err := h.notifier.SendExpirationNotification(ctx, product.Name, *product.ExpiryDate); err != nil {
		return err
	}
	product.MarkUnavailable()
	return h.products.UpdateProduct(ctx, product)
}

var _ Rule = (*ExpirableProductHandler)(nil)
