package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier writes customer notifications to the structured log. It never fails.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) error {
	n.logger.LogAttrs(ctx, slog.LevelInfo, "delay notification",
		slog.String("notification.kind", string(KindDelay)),
		slog.String("product.name", productName),
		slog.Int("product.lead_time_days", leadTimeDays))
	return nil
}

func (n *LogNotifier) SendOutOfStockNotification(ctx context.Context, productName string) error {
	n.logger.LogAttrs(ctx, slog.LevelInfo, "out of stock notification",
		slog.String("notification.kind", string(KindOutOfStock)),
		slog.String("product.name", productName))
	return nil
}

func (n *LogNotifier) SendExpirationNotification(ctx context.Context, productName string, expiryDate time.Time) error {
	n.logger.LogAttrs(ctx, slog.LevelInfo, "expiration notification",
		slog.String("notification.kind", string(KindExpiration)),
		slog.String("product.name", productName),
		slog.Time("product.expiry_date", expiryDate))
	return nil
}
