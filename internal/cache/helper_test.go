package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:abc", PostKey("abc"))
	assert.Equal(t, "post:abc:tags", PostTagsKey("abc"))
	assert.Equal(t, "tags:active", TagListKey)
}

func TestGetSetJSON(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	var missing cachedPost
	found, err := GetJSON(ctx, PostKey("nope"), &missing)
	require.NoError(t, err)
	assert.False(t, found)

	stored := cachedPost{ID: "p1", Title: "Hello"}
	require.NoError(t, SetJSON(ctx, PostKey("p1"), stored, PostTTL))

	var got cachedPost
	found, err = GetJSON(ctx, PostKey("p1"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, got)
}

func TestAside(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: "p1", Title: "From DB"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey("p1"), &first, PostTTL, fetch(&first)))
	assert.Equal(t, "From DB", first.Title)
	assert.Equal(t, 1, calls)

	// second read is served from the cache
	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey("p1"), &second, PostTTL, fetch(&second)))
	assert.Equal(t, "From DB", second.Title)
	assert.Equal(t, 1, calls)

	// expiry brings the fetch back
	mr.FastForward(PostTTL + time.Second)
	var third cachedPost
	require.NoError(t, Aside(ctx, PostKey("p1"), &third, PostTTL, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestAside_FetchError(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var dest cachedPost
	err := Aside(ctx, PostKey("p1"), &dest, PostTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	// nothing cached on failure
	found, err := GetJSON(ctx, PostKey("p1"), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey("p1"), cachedPost{ID: "p1"}, PostTTL))
	require.NoError(t, SetJSON(ctx, PostTagsKey("p1"), []string{"t1"}, TagListTTL))

	Invalidate(ctx, PostKey("p1"), PostTagsKey("p1"))

	var dest cachedPost
	found, err := GetJSON(ctx, PostKey("p1"), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilClientDegradation(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var dest cachedPost
	found, err := GetJSON(ctx, PostKey("p1"), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, PostKey("p1"), cachedPost{}, PostTTL))
	Invalidate(ctx, PostKey("p1"))

	// Aside always falls through to the source of truth
	calls := 0
	require.NoError(t, Aside(ctx, PostKey("p1"), &dest, PostTTL, func() error {
		calls++
		dest.Title = "direct"
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "direct", dest.Title)
}
