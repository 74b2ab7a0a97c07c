package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/carlaabellana/ElCofre/internal/util"

	"github.com/go-redis/redis/v8"
)

// Client caches whole catalog collections as JSON blobs. The positional
// HTTP contract makes every mutation shift positions, so the cache is
// invalidated on any write rather than patched.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient connects to Redis and verifies the connection.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func collectionKey(collection string) string {
	return fmt.Sprintf("catalog:%s", collection)
}

// GetCollection returns the cached JSON listing for a collection, with
// ok=false on a miss. Cache errors degrade to a miss; the store is the
// source of truth.
func (c *Client) GetCollection(ctx context.Context, collection string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, collectionKey(collection)).Bytes()
	if err == redis.Nil {
		util.CacheMissesTotal.WithLabelValues(collection).Inc()
		return nil, false, nil
	}
	if err != nil {
		util.CacheMissesTotal.WithLabelValues(collection).Inc()
		return nil, false, err
	}
	util.CacheHitsTotal.WithLabelValues(collection).Inc()
	return data, true, nil
}

// SetCollection caches a collection listing with the configured TTL.
func (c *Client) SetCollection(ctx context.Context, collection string, data []byte) error {
	return c.rdb.Set(ctx, collectionKey(collection), data, c.ttl).Err()
}

// InvalidateCollection drops the cached listing after a mutation.
func (c *Client) InvalidateCollection(ctx context.Context, collection string) error {
	return c.rdb.Del(ctx, collectionKey(collection)).Err()
}

// AcquireLock takes a best-effort distributed lock, used to serialize
// positional mutations across service replicas.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
