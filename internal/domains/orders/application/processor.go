package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// OrderProcessor loads an order and runs every product through its rule.
type OrderProcessor struct {
	repo     ports.Repository
	selector *RuleSelector
	locker   ports.ProductLocker
	logger   *slog.Logger
}

type Option func(*OrderProcessor)

// WithLocker replaces the in-process product locker, e.g. with a distributed one.
func WithLocker(locker ports.ProductLocker) Option {
	return func(p *OrderProcessor) {
		if locker != nil {
			p.locker = locker
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *OrderProcessor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewOrderProcessor wires the processor with its repository and rule selector.
func NewOrderProcessor(repo ports.Repository, selector *RuleSelector, opts ...Option) *OrderProcessor {
	p := &OrderProcessor{
		repo:     repo,
		selector: selector,
		locker:   newLocalLocker(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ProcessOrder applies the product rules to every product of the order.
//
// Products are processed concurrently and each one is persisted on its own:
// when one product fails the call returns that error after all products have
// finished, and stock already written for the others stays written.
//
// The returned order is the snapshot loaded before processing. Its Products
// do not reflect the stock changes; reload the products to observe them.
func (p *OrderProcessor) ProcessOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, &ValidationError{OrderID: orderID}
	}
	order, err := p.repo.FindOrderWithProducts(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			return nil, &OrderNotFoundError{OrderID: orderID}
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if len(order.Products) == 0 {
		return order, nil
	}

	// Plain group: a failing product must not cancel its siblings.
	var g errgroup.Group
	for _, snapshot := range order.Products {
		g.Go(func() error {
			return p.processProduct(ctx, order.ID, snapshot)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return order, nil
}

func (p *OrderProcessor) processProduct(ctx context.Context, orderID int64, snapshot domain.Product) error {
	rule, err := p.selector.Select(&snapshot)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelError, "no rule for product",
			slog.Int64("order.id", orderID), slog.Int64("product.id", snapshot.ID), slog.String("product.type", string(snapshot.Type)))
		return err
	}

	unlock, err := p.locker.Lock(ctx, snapshot.ID)
	if err != nil {
		return fmt.Errorf("lock product %d: %w", snapshot.ID, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to release product lock",
				slog.Int64("product.id", snapshot.ID), slog.String("error", err.Error()))
		}
	}()

	// Re-read under the lock so concurrent orders never decrement a stale count.
	current, err := p.repo.FindProductByID(ctx, snapshot.ID)
	if err != nil {
		return fmt.Errorf("reload product %d: %w", snapshot.ID, err)
	}
	if err := rule.ProcessOrder(ctx, current); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelError, "product processing failed",
			slog.Int64("order.id", orderID), slog.Int64("product.id", current.ID), slog.String("error", err.Error()))
		return err
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "product processed",
		slog.Int64("order.id", orderID), slog.Int64("product.id", current.ID), slog.Int("product.available", current.Available))
	return nil
}

var _ ports.Service = (*OrderProcessor)(nil)
