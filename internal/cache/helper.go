package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"murmur/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	PostKeyPrefix    = "post:%s"
	TagListKey       = "tags:active"
	PostTagKeyPrefix = "post:%s:tags"
)

const (
	PostTTL    = 5 * time.Minute
	TagListTTL = 10 * time.Minute
)

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostTagsKey(postID string) string {
	return fmt.Sprintf(PostTagKeyPrefix, postID)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on miss it calls fetch (which must populate
// dest), then stores the result with ttl. Cache failures degrade to the
// source of truth.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	middleware.CacheMisses.WithLabelValues(keyPrefix(key)).Inc()

	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key; no-op without a client.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
