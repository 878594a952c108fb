package application

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[int64][]int64
	products   map[int64]domain.Product
	updates    []domain.Product
	orderReads int
	updateErr  error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64][]int64{}, products: map[int64]domain.Product{}}
}

func (f *fakeOrderRepo) put(products ...domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range products {
		f.products[p.ID] = p.Clone()
	}
}

func (f *fakeOrderRepo) putOrder(id int64, products ...domain.Product) {
	f.put(products...)
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	f.orders[id] = ids
}

func (f *fakeOrderRepo) stored(id int64) domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Clone()
}

func (f *fakeOrderRepo) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeOrderRepo) FindOrderWithProducts(_ context.Context, orderID int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderReads++
	ids, ok := f.orders[orderID]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	order := &domain.Order{ID: orderID, Products: []domain.Product{}}
	for _, id := range ids {
		order.Products = append(order.Products, f.products[id].Clone())
	}
	return order, nil
}

func (f *fakeOrderRepo) FindProductByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := p.Clone()
	return &clone, nil
}

func (f *fakeOrderRepo) UpdateProduct(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.products[product.ID] = product.Clone()
	f.updates = append(f.updates, product.Clone())
	return nil
}

type notification struct {
	kind     string
	leadTime int
	name     string
	expiry   time.Time
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (n *recordingNotifier) record(v notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, v)
	return nil
}

func (n *recordingNotifier) SendDelayNotification(_ context.Context, leadTimeDays int, productName string) error {
	return n.record(notification{kind: "delay", leadTime: leadTimeDays, name: productName})
}

func (n *recordingNotifier) SendOutOfStockNotification(_ context.Context, productName string) error {
	return n.record(notification{kind: "out_of_stock", name: productName})
}

func (n *recordingNotifier) SendExpirationNotification(_ context.Context, productName string, expiryDate time.Time) error {
	return n.record(notification{kind: "expiration", name: productName, expiry: expiryDate})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

var fixedNow = time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func days(n int) time.Time { return fixedNow.AddDate(0, 0, n) }

func ptr(t time.Time) *time.Time { return &t }
