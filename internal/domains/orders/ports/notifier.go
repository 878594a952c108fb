package ports

import (
	"context"
	"time"
)

// Notifier delivers customer-facing stock notifications.
type Notifier interface {
	SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) error
	SendOutOfStockNotification(ctx context.Context, productName string) error
	SendExpirationNotification(ctx context.Context, productName string, expiryDate time.Time) error
}
