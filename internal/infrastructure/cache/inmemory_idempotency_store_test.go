package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("claims new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "contract:fully_paid:ord-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("returns false for held key", func(t *testing.T) {
		key := "contract:fully_paid:ord-2"
		isNew, err := store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("takes over an expired claim", func(t *testing.T) {
		key := "contract:fully_paid:ord-3"
		isNew, err := store.MarkProcessed(ctx, key, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("honors a cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.MarkProcessed(cctx, "contract:fully_paid:ord-4", time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInMemoryIdempotencyStore_IsProcessedAndRelease(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	held, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, held)

	_, err = store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	held, err = store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, store.Release(ctx, "k"))
	held, err = store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.False(t, held)

	isNew, err := store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "released key can be claimed again")

	assert.NoError(t, store.Release(ctx, "never-claimed"))
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(context.Background(), "contract:fully_paid:race", time.Hour)
			if err == nil && ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := newInMemoryIdempotencyStore(5 * time.Millisecond)
	defer store.Close()

	_, err := store.MarkProcessed(context.Background(), "short", time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(context.Background(), "long", time.Hour)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return store.Size() == 1 }, time.Second, 5*time.Millisecond)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestIdempotencyStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled redis uses memory", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}, WithLogger(zaptest.NewLogger(t)))
		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("falls back when redis is unreachable", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true, Host: "localhost", Port: 6379})
		f.connect = func(context.Context, config.RedisConfig) (shared.IdempotencyStore, error) {
			return nil, errors.New("connection refused")
		}
		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("fails without fallback", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true}, WithInMemoryFallback(false))
		f.connect = func(context.Context, config.RedisConfig) (shared.IdempotencyStore, error) {
			return nil, errors.New("connection refused")
		}
		_, err := f.CreateStore(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})

	t.Run("uses connected store", func(t *testing.T) {
		mem := NewInMemoryIdempotencyStore()
		defer mem.Close()
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true})
		f.connect = func(context.Context, config.RedisConfig) (shared.IdempotencyStore, error) {
			return mem, nil
		}
		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		assert.Same(t, mem, store)
	})
}
