package wallet

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupHoldStore(t *testing.T) (*RedisHoldStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisHoldStore(client), mr
}

func TestRedisHoldStoreLockedSumsLiveHolds(t *testing.T) {
	store, _ := setupHoldStore(t)
	ctx := context.Background()

	require.NoError(t, store.Hold(ctx, "user-1", "bk-1", 30, 15*time.Minute))
	require.NoError(t, store.Hold(ctx, "user-1", "bk-2", 20, 15*time.Minute))
	require.NoError(t, store.Hold(ctx, "user-2", "bk-3", 99, 15*time.Minute))

	locked, err := store.Locked(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(50), locked)

	locked, err = store.Locked(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, int64(99), locked)

	locked, err = store.Locked(ctx, "nobody")
	require.NoError(t, err)
	require.Zero(t, locked)
}

func TestRedisHoldStoreTTLExpiry(t *testing.T) {
	store, mr := setupHoldStore(t)
	ctx := context.Background()

	require.NoError(t, store.Hold(ctx, "user-1", "bk-1", 30, 15*time.Minute))
	require.True(t, mr.Exists("booking:hold:bk-1"))

	mr.FastForward(16 * time.Minute)

	// the booking mapping is gone and the locked amount self-heals to zero
	require.False(t, mr.Exists("booking:hold:bk-1"))
	locked, err := store.Locked(ctx, "user-1")
	require.NoError(t, err)
	require.Zero(t, locked)

	// the stale index member was pruned by the read
	members, err := store.client.SMembers(ctx, "wallet:holds:user-1").Result()
	require.NoError(t, err)
	require.Empty(t, members)

	_, err = store.Release(ctx, "bk-1")
	require.ErrorIs(t, err, ErrHoldNotFound)
}

func TestRedisHoldStoreRelease(t *testing.T) {
	store, mr := setupHoldStore(t)
	ctx := context.Background()

	require.NoError(t, store.Hold(ctx, "user-1", "bk-1", 30, 15*time.Minute))

	record, err := store.Release(ctx, "bk-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", record.UserID)
	require.Equal(t, "bk-1", record.BookingID)
	require.Equal(t, int64(30), record.Amount)

	require.False(t, mr.Exists("booking:hold:bk-1"))
	locked, err := store.Locked(ctx, "user-1")
	require.NoError(t, err)
	require.Zero(t, locked)

	_, err = store.Release(ctx, "bk-1")
	require.ErrorIs(t, err, ErrHoldNotFound)
}

func TestRedisHoldStoreHoldsExpireIndependently(t *testing.T) {
	store, mr := setupHoldStore(t)
	ctx := context.Background()

	require.NoError(t, store.Hold(ctx, "user-1", "bk-short", 10, 5*time.Minute))
	require.NoError(t, store.Hold(ctx, "user-1", "bk-long", 25, 30*time.Minute))

	mr.FastForward(6 * time.Minute)

	locked, err := store.Locked(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(25), locked)
}
