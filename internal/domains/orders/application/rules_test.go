package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
)

func TestNormalProductHandler(t *testing.T) {
	tests := []struct {
		name          string
		product       domain.Product
		wantAvailable int
		wantUpdates   int
		wantSent      []notification
	}{
		{
			name:          "decrements stock when available",
			product:       domain.Product{ID: 100, Name: "RJ45 Cable", Type: domain.ProductTypeNormal, Available: 3},
			wantAvailable: 2,
			wantUpdates:   1,
		},
		{
			name:          "notifies delay when out of stock with lead time",
			product:       domain.Product{ID: 101, Name: "USB Dongle", Type: domain.ProductTypeNormal, LeadTime: 7},
			wantAvailable: 0,
			wantUpdates:   1,
			wantSent:      []notification{{kind: "delay", leadTime: 7, name: "USB Dongle"}},
		},
		{
			name:          "does nothing without stock or lead time",
			product:       domain.Product{ID: 102, Name: "Discontinued", Type: domain.ProductTypeNormal},
			wantAvailable: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			repo.put(tt.product)
			notifier := &recordingNotifier{}
			handler := NewNormalProductHandler(repo, notifier)

			product := tt.product.Clone()
			require.NoError(t, handler.ProcessOrder(context.Background(), &product))

			assert.Equal(t, tt.wantAvailable, product.Available)
			assert.Equal(t, tt.wantAvailable, repo.stored(product.ID).Available)
			assert.Equal(t, tt.product.LeadTime, repo.stored(product.ID).LeadTime)
			assert.Equal(t, tt.wantUpdates, repo.updateCount())
			assert.Equal(t, tt.wantSent, notifier.all())
		})
	}
}

func TestSeasonalProductHandler(t *testing.T) {
	tests := []struct {
		name          string
		product       domain.Product
		wantAvailable int
		wantSent      []notification
	}{
		{
			name: "decrements stock when in season and available",
			product: domain.Product{ID: 1, Name: "Watermelon", Type: domain.ProductTypeSeasonal, Available: 10, LeadTime: 5,
				SeasonStartDate: ptr(days(-2)), SeasonEndDate: ptr(days(30))},
			wantAvailable: 9,
		},
		{
			name: "marks unavailable when delivery lands after season end",
			product: domain.Product{ID: 2, Name: "Strawberries", Type: domain.ProductTypeSeasonal, LeadTime: 60,
				SeasonStartDate: ptr(days(-2)), SeasonEndDate: ptr(days(10))},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "out_of_stock", name: "Strawberries"}},
		},
		{
			name: "season end overrun wins over season not started",
			product: domain.Product{ID: 3, Name: "Pumpkins", Type: domain.ProductTypeSeasonal, Available: 4, LeadTime: 90,
				SeasonStartDate: ptr(days(10)), SeasonEndDate: ptr(days(40))},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "out_of_stock", name: "Pumpkins"}},
		},
		{
			name: "lead time past time.Duration range still overruns season end",
			product: domain.Product{ID: 8, Name: "Melon", Type: domain.ProductTypeSeasonal, LeadTime: 200000,
				SeasonStartDate: ptr(days(-10)), SeasonEndDate: ptr(days(10))},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "out_of_stock", name: "Melon"}},
		},
		{
			name: "notifies out of stock before season start without zeroing",
			product: domain.Product{ID: 4, Name: "Grapes", Type: domain.ProductTypeSeasonal, Available: 6, LeadTime: 5,
				SeasonStartDate: ptr(days(180)), SeasonEndDate: ptr(days(240))},
			wantAvailable: 6,
			wantSent:      []notification{{kind: "out_of_stock", name: "Grapes"}},
		},
		{
			name: "notifies delay when in season without stock",
			product: domain.Product{ID: 5, Name: "Cherries", Type: domain.ProductTypeSeasonal, LeadTime: 3,
				SeasonStartDate: ptr(days(-5)), SeasonEndDate: ptr(days(20))},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "delay", leadTime: 3, name: "Cherries"}},
		},
		{
			name: "season end is inclusive",
			product: domain.Product{ID: 6, Name: "Apricots", Type: domain.ProductTypeSeasonal, Available: 1,
				SeasonStartDate: ptr(days(-10)), SeasonEndDate: ptr(fixedNow)},
			wantAvailable: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			repo.put(tt.product)
			notifier := &recordingNotifier{}
			handler := NewSeasonalProductHandler(repo, notifier, clock)

			product := tt.product.Clone()
			require.NoError(t, handler.ProcessOrder(context.Background(), &product))

			assert.Equal(t, tt.wantAvailable, product.Available)
			assert.Equal(t, tt.wantAvailable, repo.stored(product.ID).Available)
			assert.Equal(t, 1, repo.updateCount())
			assert.Equal(t, tt.wantSent, notifier.all())
		})
	}
}

func TestSeasonalProductHandler_MissingWindow(t *testing.T) {
	repo := newFakeOrderRepo()
	notifier := &recordingNotifier{}
	handler := NewSeasonalProductHandler(repo, notifier, clock)

	product := domain.Product{ID: 7, Name: "Broken", Type: domain.ProductTypeSeasonal, Available: 2}
	err := handler.ProcessOrder(context.Background(), &product)

	require.ErrorIs(t, err, ErrInvalidProduct)
	require.ErrorIs(t, err, domain.ErrMissingSeasonWindow)
	assert.Zero(t, repo.updateCount())
	assert.Empty(t, notifier.all())
}

func TestExpirableProductHandler(t *testing.T) {
	tests := []struct {
		name          string
		product       domain.Product
		wantAvailable int
		wantSent      []notification
	}{
		{
			name:          "decrements stock when not expired and in stock",
			product:       domain.Product{ID: 10, Name: "Butter", Type: domain.ProductTypeExpirable, Available: 5, ExpiryDate: ptr(days(10))},
			wantAvailable: 4,
		},
		{
			name:          "withdraws expired product",
			product:       domain.Product{ID: 11, Name: "Milk", Type: domain.ProductTypeExpirable, Available: 5, ExpiryDate: ptr(days(-2))},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "expiration", name: "Milk", expiry: days(-2)}},
		},
		{
			name:          "withdraws out of stock product",
			product:       domain.Product{ID: 12, Name: "Yogurt", Type: domain.ProductTypeExpirable, ExpiryDate: ptr(days(3))},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "expiration", name: "Yogurt", expiry: days(3)}},
		},
		{
			name:          "expiry instant counts as expired",
			product:       domain.Product{ID: 13, Name: "Cream", Type: domain.ProductTypeExpirable, Available: 2, ExpiryDate: ptr(fixedNow)},
			wantAvailable: 0,
			wantSent:      []notification{{kind: "expiration", name: "Cream", expiry: fixedNow}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			repo.put(tt.product)
			notifier := &recordingNotifier{}
			handler := NewExpirableProductHandler(repo, notifier, clock)

			product := tt.product.Clone()
			require.NoError(t, handler.ProcessOrder(context.Background(), &product))

			assert.Equal(t, tt.wantAvailable, product.Available)
			assert.Equal(t, tt.wantAvailable, repo.stored(product.ID).Available)
			assert.Equal(t, 1, repo.updateCount())
			assert.Equal(t, tt.wantSent, notifier.all())
		})
	}
}

func TestExpirableProductHandler_MissingExpiry(t *testing.T) {
	repo := newFakeOrderRepo()
	notifier := &recordingNotifier{}
	handler := NewExpirableProductHandler(repo, notifier, clock)

	product := domain.Product{ID: 15, Name: "Cheese", Type: domain.ProductTypeExpirable, Available: 3}
	err := handler.ProcessOrder(context.Background(), &product)

	require.ErrorIs(t, err, ErrInvalidProduct)
	require.ErrorIs(t, err, domain.ErrMissingExpiryDate)
	assert.Equal(t, 3, product.Available)
	assert.Zero(t, repo.updateCount())
	assert.Empty(t, notifier.all())
}

func TestExpirableProductHandler_NotifierFailureStopsWrite(t *testing.T) {
	repo := newFakeOrderRepo()
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	handler := NewExpirableProductHandler(repo, notifier, clock)

	product := domain.Product{ID: 14, Name: "Kefir", Type: domain.ProductTypeExpirable, Available: 1, ExpiryDate: ptr(days(-1))}
	err := handler.ProcessOrder(context.Background(), &product)

	require.EqualError(t, err, "smtp down")
	assert.Zero(t, repo.updateCount())
}

func TestNormalProductHandler_UpdateFailurePropagates(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.updateErr = errors.New("connection reset")
	notifier := &recordingNotifier{}
	handler := NewNormalProductHandler(repo, notifier)

	product := domain.Product{ID: 15, Name: "Cable", Type: domain.ProductTypeNormal, LeadTime: 2}
	err := handler.ProcessOrder(context.Background(), &product)

	require.EqualError(t, err, "connection reset")
	assert.Empty(t, notifier.all(), "delay notification is sent only after the row is written")
}
