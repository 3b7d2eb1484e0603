package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLFeed    = 30 * time.Second // public feed pages (frequently updated)
	TTLMemoir  = 1 * time.Minute  // public memoir detail
	TTLUser    = 5 * time.Minute  // user profiles
	TTLDefault = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixFeed   = "feed:"
	PrefixMemoir = "memoir:"
	PrefixUser   = "user:"
)

// ErrCacheMiss is returned when a key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Service is the Redis cache facade used by the community layer
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetFeedPage(ctx context.Context, page, limit int) ([]byte, error)
	SetFeedPage(ctx context.Context, page, limit int, data interface{}) error
	InvalidateFeed(ctx context.Context) error

	InvalidateMemoir(ctx context.Context, memoirID uint64) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func feedKey(page, limit int) string {
	return fmt.Sprintf("%spublic:%d:%d", PrefixFeed, page, limit)
}

func (c *redisCache) GetFeedPage(ctx context.Context, page, limit int) ([]byte, error) {
	raw, err := c.client.Get(ctx, feedKey(page, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return raw, err
}

func (c *redisCache) SetFeedPage(ctx context.Context, page, limit int, data interface{}) error {
	return c.Set(ctx, feedKey(page, limit), data, TTLFeed)
}

// InvalidateFeed drops all cached feed pages
func (c *redisCache) InvalidateFeed(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, PrefixFeed+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}

func (c *redisCache) InvalidateMemoir(ctx context.Context, memoirID uint64) error {
	return c.Delete(ctx, fmt.Sprintf("%s%d", PrefixMemoir, memoirID))
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
