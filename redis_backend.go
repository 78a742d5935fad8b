package salesbase

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisBackend implements Backend using Redis string keys. Documents are
// small JSON blobs, so plain GET/SET with SCAN for listings is sufficient;
// no secondary structures are maintained.
type RedisBackend struct {
	client     *redis.Client
	ownsClient bool // If true, Close() will close the Redis client
}

// NewRedisBackend creates a backend over an existing Redis client.
// The caller keeps ownership of the client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// NewRedisBackendWithOwnedClient creates a backend that owns the client.
// The client will be closed when Close() is called.
func NewRedisBackendWithOwnedClient(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client, ownsClient: true}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, WithContext(ErrStoreUnavailable, map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
	}
	return data, nil
}

func (b *RedisBackend) Put(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, key, data, 0).Err(); err != nil {
		return WithContext(ErrStoreUnavailable, map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	deleted, err := b.client.Del(ctx, key).Result()
	if err != nil {
		return WithContext(ErrStoreUnavailable, map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *RedisBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, WithContext(ErrStoreUnavailable, map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
	}
	return n > 0, nil
}

func (b *RedisBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, WithContext(ErrStoreUnavailable, map[string]interface{}{
			"prefix": prefix,
			"reason": err.Error(),
		})
	}

	// SCAN order is unspecified
	sort.Strings(keys)
	return keys, nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return WithContext(ErrStoreUnavailable, map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}

func (b *RedisBackend) Close() error {
	if b.ownsClient && b.client != nil {
		return b.client.Close()
	}
	return nil
}
