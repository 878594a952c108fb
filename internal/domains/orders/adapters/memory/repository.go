package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order and product store.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	orders   map[int64][]int64
}

func NewRepository() *Repository {
	return &Repository{
		products: map[int64]domain.Product{},
		orders:   map[int64][]int64{},
	}
}

// AddProduct stores a validated copy of product, replacing any row with the same id.
func (r *Repository) AddProduct(product domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("product %d: %w", product.ID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product.Clone()
	return nil
}

// AddOrder links an order to already stored products.
func (r *Repository) AddOrder(orderID int64, productIDs ...int64) error {
	if orderID <= 0 {
		return domain.ErrInvalidOrderID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range productIDs {
		if _, ok := r.products[id]; !ok {
			return fmt.Errorf("order %d references product %d: %w", orderID, id, ports.ErrProductNotFound)
		}
	}
	r.orders[orderID] = append([]int64(nil), productIDs...)
	return nil
}

// Reset drops every stored order and product.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = map[int64]domain.Product{}
	r.orders = map[int64][]int64{}
}

func (r *Repository) FindOrderWithProducts(_ context.Context, orderID int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	order := &domain.Order{ID: orderID, Products: make([]domain.Product, 0, len(ids))}
	for _, id := range ids {
		order.Products = append(order.Products, r.products[id].Clone())
	}
	return order, nil
}

func (r *Repository) FindProductByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := product.Clone()
	return &clone, nil
}

// UpdateProduct overwrites the stored row. Unknown ids are rejected rather than inserted.
func (r *Repository) UpdateProduct(_ context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return ports.ErrProductNotFound
	}
	r.products[product.ID] = product.Clone()
	return nil
}
