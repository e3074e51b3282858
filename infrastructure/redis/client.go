package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"gofiber-cms/pkg/config"
	"gofiber-cms/pkg/logger"
)

// ErrMiss is returned by GetJSON when the key does not exist.
var ErrMiss = redis.Nil

// Client wraps the Redis client
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client from config
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connected", "url", cfg.URL)
	return &Client{rdb: rdb}, nil
}

// NewFromRedis wraps an existing go-redis client (tests).
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ScanAndDelete deletes all keys matching a pattern
func (c *Client) ScanAndDelete(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	var cursor uint64

	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// Locking
// ═══════════════════════════════════════════════════════════════════════════════

// AcquireLock returns false when another caller holds the lock.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockKey, "1", ttl).Result()
}

func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, lockKey).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// JSON Cache Helpers
// ═══════════════════════════════════════════════════════════════════════════════

func (c *Client) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON returns ErrMiss if the key does not exist
func (c *Client) GetJSON(ctx context.Context, key string, target any) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// GetOrSet อ่านจาก cache ก่อน ถ้าไม่มีให้ถือ lock แล้วโหลดจาก getter
// เพื่อให้มีแค่ request เดียวที่ยิง database ต่อ key
func (c *Client) GetOrSet(ctx context.Context, key string, target any, ttl time.Duration, getter func() (any, error)) error {
	const maxWait = 20

	for attempt := 0; ; attempt++ {
		err := c.GetJSON(ctx, key, target)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrMiss) {
			return err
		}

		lockKey := "lock:" + key
		locked, err := c.AcquireLock(ctx, lockKey, 10*time.Second)
		if err != nil {
			return err
		}
		if locked || attempt >= maxWait {
			if locked {
				defer c.ReleaseLock(ctx, lockKey)
			}
			return c.load(ctx, key, target, ttl, getter)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (c *Client) load(ctx context.Context, key string, target any, ttl time.Duration, getter func() (any, error)) error {
	result, err := getter()
	if err != nil {
		return err
	}
	if err := c.SetJSON(ctx, key, result, ttl); err != nil {
		logger.WarnContext(ctx, "Failed to cache result", "key", key, "error", err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
