package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

var _ ports.ProductLocker = (*Locker)(nil)

// ErrLockLost is returned on release when the lock expired and was taken by someone else.
var ErrLockLost = errors.New("product lock expired before release")

// luaReleaseIfOwner deletes the key only while it still holds our token.
const luaReleaseIfOwner = `
local lockKey = KEYS[1]
local token = ARGV[1]
if redis.call('GET', lockKey) == token then
  return redis.call('DEL', lockKey)
end
return 0
`

const (
	defaultTTL          = 30 * time.Second
	defaultPollInterval = 25 * time.Millisecond
)

// ProductLockKey is the key guarding stock updates of one product.
func ProductLockKey(productID int64) string {
	return fmt.Sprintf("orders:product:lock:%d", productID)
}

// Locker serializes product updates across processes with a Redis lease.
type Locker struct {
	rdb  *rd.Client
	ttl  time.Duration
	poll time.Duration
}

type Option func(*Locker)

// WithTTL bounds how long a crashed holder can block a product.
func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(l *Locker) {
		if interval > 0 {
			l.poll = interval
		}
	}
}

func NewLocker(rdb *rd.Client, opts ...Option) *Locker {
	l := &Locker{rdb: rdb, ttl: defaultTTL, poll: defaultPollInterval}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock polls SET NX until the lease is acquired or ctx is done.
func (l *Locker) Lock(ctx context.Context, productID int64) (ports.UnlockFunc, error) {
	key := ProductLockKey(productID)
	token := uuid.NewString()
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return l.release(key, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Locker) release(key, token string) ports.UnlockFunc {
	return func(ctx context.Context) error {
		deleted, err := l.rdb.Eval(ctx, luaReleaseIfOwner, []string{key}, token).Int()
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrLockLost
		}
		return nil
	}
}
