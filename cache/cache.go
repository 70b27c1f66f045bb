// Package cache is the key-value cache shared by the handlers: rendered blog pages, blog settings
// and page view counters. A RedisCache without a client behaves as an always-missing cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// Incr adds delta to an existing counter. It reports false, without creating the key, when the
	// counter is not cached.
	Incr(ctx context.Context, key string, delta int64) (int64, bool, error)
	SetInt(ctx context.Context, key string, value int64, ttl time.Duration) error
}

type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

// Connect returns a cache for addr, or a disabled cache when addr is empty.
func Connect(ctx context.Context, addr, password string, db int) (*RedisCache, error) {

	if addr == "" {
		return NewRedisCache(nil), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisCache(client), nil
}

func (r *RedisCache) Enabled() bool {
	return r != nil && r.Client != nil
}

func (r *RedisCache) Close() error {

	if !r.Enabled() {
		return nil
	}

	return r.Client.Close()
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {

	if !r.Enabled() {
		return false, nil
	}

	data, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}

	return true, nil
}

// SetJSON stores value with the given ttl. A non-positive ttl skips caching.
func (r *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {

	if !r.Enabled() || ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.Client.SetEX(ctx, key, data, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {

	if !r.Enabled() || len(keys) == 0 {
		return nil
	}

	return r.Client.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching a glob pattern.
func (r *RedisCache) DeletePattern(ctx context.Context, pattern string) error {

	if !r.Enabled() {
		return nil
	}

	var matched []string

	iter := r.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		matched = append(matched, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	return r.Delete(ctx, matched...)
}

// incrIfExists only increments a counter that is already cached so that a cold counter is
// loaded from the datastore first.
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCRBY", KEYS[1], ARGV[1])
end
return false
`)

func (r *RedisCache) Incr(ctx context.Context, key string, delta int64) (int64, bool, error) {

	if !r.Enabled() {
		return 0, false, nil
	}

	n, err := incrIfExists.Run(ctx, r.Client, []string{key}, delta).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return n, true, nil
}

func (r *RedisCache) SetInt(ctx context.Context, key string, value int64, ttl time.Duration) error {

	if !r.Enabled() {
		return nil
	}

	return r.Client.Set(ctx, key, strconv.FormatInt(value, 10), ttl).Err()
}
