// Package cache keeps per-post engagement counters in redis in front of
// the relational store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CounterTTL      = 24 * time.Hour
	counterKeyspace = "aura:post"
)

// Counter names a per-post counter.
type Counter string

const (
	LikesCounter    Counter = "likes"
	CommentsCounter Counter = "comments"
)

// CounterCache is a cache-aside store for post counters. A miss reports
// ok=false and the caller recounts and calls Set.
type CounterCache interface {
	Get(ctx context.Context, c Counter, postID uint) (n int64, ok bool, err error)
	Set(ctx context.Context, c Counter, postID uint, n int64) error
	Invalidate(ctx context.Context, c Counter, postID uint) error
}

func counterKey(c Counter, postID uint) string {
	return fmt.Sprintf("%s:%d:%s", counterKeyspace, postID, c)
}

// RedisCounterCache implements CounterCache on redis
type RedisCounterCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCounterCache(client *redis.Client) *RedisCounterCache {
	return &RedisCounterCache{client: client, ttl: CounterTTL}
}

func (r *RedisCounterCache) Get(ctx context.Context, c Counter, postID uint) (int64, bool, error) {
	val, err := r.client.Get(ctx, counterKey(c, postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (r *RedisCounterCache) Set(ctx context.Context, c Counter, postID uint, n int64) error {
	return r.client.Set(ctx, counterKey(c, postID), n, r.ttl).Err()
}

// Invalidate drops the key so the next read recounts from the database.
func (r *RedisCounterCache) Invalidate(ctx context.Context, c Counter, postID uint) error {
	err := r.client.Del(ctx, counterKey(c, postID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// NopCounterCache always misses.
type NopCounterCache struct{}

func (NopCounterCache) Get(context.Context, Counter, uint) (int64, bool, error) { return 0, false, nil }
func (NopCounterCache) Set(context.Context, Counter, uint, int64) error { return nil }
func (NopCounterCache) Invalidate(context.Context, Counter, uint) error { return nil }
