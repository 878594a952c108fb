package application

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// SeasonalProductHandler only sells inside the season window and refuses
// restocks that would land after the season closes.
type SeasonalProductHandler struct {
	products ports.ProductWriter
	notifier ports.Notifier
	now      func() time.Time
}

func NewSeasonalProductHandler(products ports.ProductWriter, notifier ports.Notifier, now func() time.Time) *SeasonalProductHandler {
	return &SeasonalProductHandler{products: products, notifier: notifier, now: clockOrDefault(now)}
}

func (h *SeasonalProductHandler) CanHandle(product *domain.Product) bool {
	return product.Type == domain.ProductTypeSeasonal
}

// ProcessOrder checks, in order: sellable now, restock past season end,
// season not started yet, and otherwise a plain delay.
func (h *SeasonalProductHandler) ProcessOrder(ctx context.Context, product *domain.Product) error {
	if product.SeasonStartDate == nil || product.SeasonEndDate == nil {
		return mapError(domain.ErrMissingSeasonWindow)
	}
	now := h.now()
	if product.InSeason(now) && product.InStock() {
		product.TakeOne()
		return h.products.UpdateProduct(ctx, product)
	}

	if product.DeliveryDate(now).After(*product.SeasonEndDate) {
		if err := h.notifier.SendOutOfStockNotification(ctx, product.Name); err != nil {
			return err
		}
		product.MarkUnavailable()
		return h.products.UpdateProduct(ctx, product)
	}

	if now.Before(*product.SeasonStartDate) {
		if err := h.notifier.SendOutOfStockNotification(ctx, product.Name); err != nil {
			return err
		}
		return h.products.UpdateProduct(ctx, product)
	}

	return persistAndNotifyDelay(ctx, h.products, h.notifier, product)
}

var _ Rule = (*SeasonalProductHandler)(nil)
