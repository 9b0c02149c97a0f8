package readcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/livebingo/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestLoad_ReadThrough(t *testing.T) {
	ctx := context.Background()
	redisClient, server := testutil.NewRedisClient(t)
	cache := New(redisClient, time.Minute)

	calls := 0
	loader := func(context.Context) (item, error) {
		calls++
		return item{Name: "a", Value: calls}, nil
	}

	got, err := Load(ctx, cache, "item:a", loader)
	require.NoError(t, err)
	require.Equal(t, item{Name: "a", Value: 1}, got)
	require.True(t, server.Exists("item:a"))
	require.Equal(t, time.Minute, server.TTL("item:a"))

	got, err = Load(ctx, cache, "item:a", loader)
	require.NoError(t, err)
	require.Equal(t, item{Name: "a", Value: 1}, got)
	require.Equal(t, 1, calls)

	server.FastForward(2 * time.Minute)
	got, err = Load(ctx, cache, "item:a", loader)
	require.NoError(t, err)
	require.Equal(t, 2, got.Value)
}

func TestLoad_LoaderErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	redisClient, server := testutil.NewRedisClient(t)
	cache := New(redisClient, time.Minute)

	failure := errors.New("not found")
	_, err := Load(ctx, cache, "item:a", func(context.Context) (*item, error) {
		return nil, failure
	})
	require.ErrorIs(t, err, failure)
	require.False(t, server.Exists("item:a"))
}

func TestLoad_CacheFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	redisClient, server := testutil.NewRedisClient(t)
	cache := New(redisClient, time.Minute)
	server.Close()

	got, err := Load(ctx, cache, "item:a", func(context.Context) (item, error) {
		return item{Name: "store"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "store", got.Name)

	// Invalidation failures are not surfaced.
	cache.Invalidate(ctx, []string{"item:a"}, "items:*")
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	redisClient, server := testutil.NewRedisClient(t)
	cache := New(redisClient, time.Minute)

	cache.Set(ctx, "item:a", item{Name: "a"})
	cache.Set(ctx, "items:1:10", []item{{Name: "a"}})
	cache.Set(ctx, "items:2:10", []item{{Name: "b"}})
	cache.Set(ctx, "other", item{Name: "c"})

	cache.Invalidate(ctx, []string{"item:a"}, "items:*")
	require.False(t, server.Exists("item:a"))
	require.False(t, server.Exists("items:1:10"))
	require.False(t, server.Exists("items:2:10"))
	require.True(t, server.Exists("other"))
}

func TestLoad_FreshValueAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	redisClient, _ := testutil.NewRedisClient(t)
	cache := New(redisClient, time.Minute)

	store := []item{{Name: "a"}}
	loader := func(context.Context) ([]item, error) {
		return append([]item{}, store...), nil
	}

	got, err := Load(ctx, cache, "items:1:10", loader)
	require.NoError(t, err)
	require.Len(t, got, 1)

	store = append(store, item{Name: "b"})
	cache.Invalidate(ctx, nil, "items:*")

	got, err = Load(ctx, cache, "items:1:10", loader)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
