package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceStore_CheckAndSet_NewMessage(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)

	ok, err := store.CheckAndSet(context.Background(), "hollow:twitch", "msg-abc", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "unseen message id should return true")
	assert.True(t, s.Exists("nonce:hollow:twitch:msg-abc"))
}

func TestNonceStore_CheckAndSet_Redelivery(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "hollow:twitch", "msg-xyz", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.CheckAndSet(ctx, "hollow:twitch", "msg-xyz", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "redelivered message id should return false")
}

func TestNonceStore_CheckAndSet_ScopesIndependent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok1, err := store.CheckAndSet(ctx, "hollow:twitch", "msg-123", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok1)

	ok2, err := store.CheckAndSet(ctx, "glade:twitch", "msg-123", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok2, "same id in another sanctuary should be new")
}

func TestNonceStore_CheckAndSet_Expired(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "hollow:twitch", "msg-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = store.CheckAndSet(ctx, "hollow:twitch", "msg-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired id should be accepted again")
}

func TestNonceStore_CheckAndSet_ConnectionError(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	s.Close()

	_, err := store.CheckAndSet(context.Background(), "hollow:twitch", "msg", time.Minute)
	assert.Error(t, err)
}

func TestNonceStore_Release(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "hollow:twitch", "msg-1", 10*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "hollow:twitch", "msg-1"))

	ok, err = store.CheckAndSet(ctx, "hollow:twitch", "msg-1", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "released id should be accepted again")
}
