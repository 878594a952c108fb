package application

import (
	"context"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// NormalProductHandler sells from stock and reports restock delays.
type NormalProductHandler struct {
	products ports.ProductWriter
	notifier ports.Notifier
}

func NewNormalProductHandler(products ports.ProductWriter, notifier ports.Notifier) *NormalProductHandler {
	return &NormalProductHandler{products: products, notifier: notifier}
}

func (h *NormalProductHandler) CanHandle(product *domain.Product) bool {
	return product.Type == domain.ProductTypeNormal
}

func (h *NormalProductHandler) ProcessOrder(ctx context.Context, product *domain.Product) error {
	if product.InStock() {
		product.TakeOne()
		return h.products.UpdateProduct(ctx, product)
	}
	if product.LeadTime > 0 {
		return persistAndNotifyDelay(ctx, h.products, h.notifier, product)
	}
	// Nothing in stock and nothing coming.
	return nil
}

var _ Rule = (*NormalProductHandler)(nil)
