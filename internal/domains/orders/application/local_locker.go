package application

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// localLocker serializes work per product id inside one process.
type localLocker struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	held chan struct{}
	refs int
}

func newLocalLocker() *localLocker {
	return &localLocker{locks: map[int64]*lockEntry{}}
}

func (l *localLocker) Lock(ctx context.Context, productID int64) (ports.UnlockFunc, error) {
	l.mu.Lock()
	entry, ok := l.locks[productID]
	if !ok {
		entry = &lockEntry{held: make(chan struct{}, 1)}
		l.locks[productID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.held <- struct{}{}:
	case <-ctx.Done():
		l.forget(productID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-entry.held
			l.forget(productID, entry)
		})
		return nil
	}, nil
}

// forget drops the entry once no goroutine holds or waits for it.
func (l *localLocker) forget(productID int64, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, productID)
	}
}

var _ ports.ProductLocker = (*localLocker)(nil)
