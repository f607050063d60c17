// internal/infrastructure/storage/redis.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter persists values in Redis with a rolling TTL. This mirrors
// how guest session state is usually kept: every save refreshes the
// expiration, so active sessions never expire mid-browse.
type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAdapter wraps an existing Redis client
func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	return &RedisAdapter{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves the value stored under key
func (r *RedisAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load %q from redis: %w", key, err)
	}
	return data, nil
}

// Save stores value under key with the configured TTL
func (r *RedisAdapter) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %q to redis: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %q from redis: %w", key, err)
	}
	return nil
}
