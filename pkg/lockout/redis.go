package lockout

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces lockout keys in a shared Redis.
const DefaultKeyPrefix = "lockout"

// RedisCounter keeps failure counts in Redis so every node sees the same
// count. Keys use a hash tag on the user id, which keeps both keys of one user
// in the same cluster slot.
type RedisCounter struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisCounter.
type RedisOption func(*RedisCounter)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCounter) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewRedisCounter creates a Counter backed by client.
func NewRedisCounter(client redis.UniversalClient, opts ...RedisOption) *RedisCounter {
	c := &RedisCounter{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCounter) countKey(userID string) string {
	return c.prefix + ":{" + userID + "}:count"
}

func (c *RedisCounter) windowKey(userID string) string {
	return c.prefix + ":{" + userID + "}:window"
}

// IncrementFailedAttempts runs INCR and SETNX of the window start in one
// MULTI/EXEC transaction.
func (c *RedisCounter) IncrementFailedAttempts(ctx context.Context, userID string, at time.Time) (int, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, c.countKey(userID))
		pipe.SetNX(ctx, c.windowKey(userID), at.Unix(), 0)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (c *RedisCounter) ResetFailedAttempts(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.countKey(userID), c.windowKey(userID)).Err()
}

// Attempts returns the current count and window start for userID.
func (c *RedisCounter) Attempts(ctx context.Context, userID string) (int, time.Time, error) {
	count, err := c.client.Get(ctx, c.countKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	raw, err := c.client.Get(ctx, c.windowKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return count, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, time.Time{}, err
	}
	return count, time.Unix(sec, 0), nil
}
