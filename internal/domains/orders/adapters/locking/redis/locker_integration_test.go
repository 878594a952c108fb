//go:build integration

package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*rd.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := rd.NewClient(&rd.Options{Addr: endpoint})
	require.NoError(t, rdb.Ping(ctx).Err())

	cleanup := func() {
		rdb.Close()
		container.Terminate(ctx)
	}
	return rdb, cleanup
}

func TestLocker_MutualExclusion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	locker := NewLocker(rdb, WithPollInterval(5*time.Millisecond))
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		peak    int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), 1)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			holders++
			if holders > peak {
				peak = holders
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			holders--
			mu.Unlock()
			assert.NoError(t, unlock(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, peak)
}

func TestLocker_ContextCancelWhileWaiting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	locker := NewLocker(rdb)
	unlock, err := locker.Lock(context.Background(), 2)
	require.NoError(t, err)
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_ExpiredLeaseIsNotReleasedByOldHolder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	ctx := context.Background()
	locker := NewLocker(rdb, WithTTL(50*time.Millisecond))
	stale, err := locker.Lock(ctx, 3)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	fresh, err := locker.Lock(ctx, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, stale(ctx), ErrLockLost)
	exists, err := rdb.Exists(ctx, ProductLockKey(3)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
	assert.NoError(t, fresh(ctx))
}
