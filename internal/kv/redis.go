package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces slot keys in a shared Redis.
const DefaultRedisPrefix = "accountkeeper:"

// DialRedis connects to addr and checks the server answers.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kv/redis: ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps each slot as a plain Redis string without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client. Keys are stored as prefix+key.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv/redis: get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv/redis: set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
