package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultRedisNamespace is prepended to every key a RedisCache writes.
const DefaultRedisNamespace = "revetment:"

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	Namespace   string        // defaults to DefaultRedisNamespace
	DialTimeout time.Duration // defaults to 5s
}

// RedisCache stores entries in Redis under a namespace, so Clear only
// touches keys this tool wrote.
type RedisCache struct {
	rdb       *goredis.Client
	namespace string
}

// NewRedisCache connects to Redis and checks the connection with PING.
// Connection failures are retried with backoff before giving up.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	err := RetryWithBackoff(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: redis ping %s: %v", ErrNetwork, opts.Addr, err))
		}
		return nil
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return newRedisCache(rdb, opts.Namespace), nil
}

func newRedisCache(rdb *goredis.Client, namespace string) *RedisCache {
	if namespace == "" {
		namespace = DefaultRedisNamespace
	}
	return &RedisCache{rdb: rdb, namespace: namespace}
}

func (c *RedisCache) key(k string) string { return c.namespace + k }

// Get retrieves a value. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get: %v", ErrNetwork, err)
	}
	return data, true, nil
}

// Set stores a value with the given ttl; ttl <= 0 keeps it forever.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", ErrNetwork, err)
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", ErrNetwork, err)
	}
	return nil
}

// Clear deletes every key under the namespace.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.namespace+"*", 500).Result()
		if err != nil {
			return count, fmt.Errorf("%w: redis scan: %v", ErrNetwork, err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return count, fmt.Errorf("%w: redis del: %v", ErrNetwork, err)
			}
			count += int(n)
		}
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

// Addr returns the Redis server address.
func (c *RedisCache) Addr() string { return c.rdb.Options().Addr }

func (c *RedisCache) Close() error { return c.rdb.Close() }

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
