package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Site config cache key. The config blob is small and read on every public
// page load, so it is the one hot key in this service.
const SiteConfigKey = "site_config:main"

var client *redis.Client

// Init connects to Redis. A failed connection degrades gracefully: the client
// stays nil and every cache call becomes a no-op.
func Init(addr, password string) error {
	if addr == "" {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when caching is disabled.
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key.
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL.
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidateKeys removes specific cache keys.
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// IsHealthy returns true if the Redis connection is working.
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
