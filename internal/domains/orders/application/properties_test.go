package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
)

func TestNormalProductHandler_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		available := rapid.IntRange(0, 50).Draw(t, "available")
		leadTime := rapid.IntRange(0, 30).Draw(t, "leadTime")
		repo := newFakeOrderRepo()
		notifier := &recordingNotifier{}
		product := domain.Product{ID: 1, Name: "Cable", Type: domain.ProductTypeNormal, Available: available, LeadTime: leadTime}
		repo.put(product)

		require.NoError(t, NewNormalProductHandler(repo, notifier).ProcessOrder(context.Background(), &product))

		switch {
		case available > 0:
			require.Equal(t, available-1, repo.stored(1).Available)
			require.Empty(t, notifier.all())
		case leadTime > 0:
			require.Equal(t, 1, repo.updateCount())
			require.Equal(t, []notification{{kind: "delay", leadTime: leadTime, name: "Cable"}}, notifier.all())
		default:
			require.Zero(t, repo.updateCount())
			require.Empty(t, notifier.all())
			require.Zero(t, repo.stored(1).Available)
		}
	})
}

func TestSeasonalProductHandler_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		available := rapid.IntRange(0, 20).Draw(t, "available")
		leadTime := rapid.OneOf(rapid.IntRange(0, 120), rapid.IntRange(100000, 10000000)).Draw(t, "leadTime")
		startOffset := rapid.IntRange(-60, 60).Draw(t, "startOffset")
		length := rapid.IntRange(0, 90).Draw(t, "length")
		start, end := days(startOffset), days(startOffset+length)

		repo := newFakeOrderRepo()
		notifier := &recordingNotifier{}
		product := domain.Product{ID: 1, Name: "Melon", Type: domain.ProductTypeSeasonal, Available: available, LeadTime: leadTime,
			SeasonStartDate: ptr(start), SeasonEndDate: ptr(end)}
		repo.put(product)

		require.NoError(t, NewSeasonalProductHandler(repo, notifier, clock).ProcessOrder(context.Background(), &product))

		stored := repo.stored(1)
		sent := notifier.all()
		inSeason := !fixedNow.Before(start) && !fixedNow.After(end)
		overrun := days(leadTime).After(end)
		switch {
		case inSeason && available > 0:
			require.Equal(t, available-1, stored.Available)
			require.Empty(t, sent)
		case overrun:
			require.Zero(t, stored.Available)
			require.Equal(t, []notification{{kind: "out_of_stock", name: "Melon"}}, sent)
		case fixedNow.Before(start):
			require.Equal(t, available, stored.Available)
			require.Equal(t, []notification{{kind: "out_of_stock", name: "Melon"}}, sent)
		default:
			require.Equal(t, available, stored.Available)
			require.Equal(t, []notification{{kind: "delay", leadTime: leadTime, name: "Melon"}}, sent)
		}
		require.GreaterOrEqual(t, stored.Available, 0)
	})
}

func TestExpirableProductHandler_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		available := rapid.IntRange(0, 20).Draw(t, "available")
		expiryOffset := rapid.IntRange(-30, 30).Draw(t, "expiryOffset")
		expiry := days(expiryOffset)

		repo := newFakeOrderRepo()
		notifier := &recordingNotifier{}
		product := domain.Product{ID: 1, Name: "Milk", Type: domain.ProductTypeExpirable, Available: available, ExpiryDate: ptr(expiry)}
		repo.put(product)

		require.NoError(t, NewExpirableProductHandler(repo, notifier, clock).ProcessOrder(context.Background(), &product))

		if available > 0 && expiry.After(fixedNow) {
			require.Equal(t, available-1, repo.stored(1).Available)
			require.Empty(t, notifier.all())
			return
		}
		require.Zero(t, repo.stored(1).Available)
		require.Equal(t, []notification{{kind: "expiration", name: "Milk", expiry: expiry}}, notifier.all())
	})
}
