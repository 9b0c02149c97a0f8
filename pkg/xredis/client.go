package xredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/livebingo/backend/pkg/xcontext"

	"github.com/redis/go-redis/v9"
)

const scanCount = 100

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	// DelPattern deletes all keys matching the glob pattern and returns the
	// number of deleted keys.
	DelPattern(ctx context.Context, pattern string) (int, error)
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Single object
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObj(ctx context.Context, key string, v any) error

	// Hash
	HSet(ctx context.Context, key string, values map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	HLen(ctx context.Context, key string) (uint64, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

// Wrap uses an existing redis client.
func Wrap(redisClient *redis.Client) *client {
	return &client{redisClient: redisClient}
}

func (c *client) Close() error {
	return c.redisClient.Close()
}

func IsNil(err error) bool {
	return err == redis.Nil
}

///// COMMON FEATURE
func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := c.redisClient.Del(ctx, keys...).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}

func (c *client) DelPattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return deleted, err
		}

		if len(keys) > 0 {
			n, err := c.redisClient.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}

			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Keys returns all keys matching the glob pattern. It uses SCAN, so keys
// changed during the iteration may be missed or returned.
func (c *client) Keys(ctx context.Context, pattern string) ([]string, error) {
	result := []string{}
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, err
		}

		result = append(result, keys...)
		cursor = next
		if cursor == 0 {
			return result, nil
		}
	}
}

///// SINGLE OBJECT
func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}

///// HASH
func (c *client) HSet(ctx context.Context, key string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	args := make([]any, 0, 2*len(values))
	for field, value := range values {
		args = append(args, field, value)
	}

	return c.redisClient.HSet(ctx, key, args...).Err()
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.redisClient.HGetAll(ctx, key).Result()
}

func (c *client) HDel(ctx context.Context, key string, fields ...string) error {
	return c.redisClient.HDel(ctx, key, fields...).Err()
}

func (c *client) HLen(ctx context.Context, key string) (uint64, error) {
	n, err := c.redisClient.HLen(ctx, key).Result()
	return uint64(n), err
}
