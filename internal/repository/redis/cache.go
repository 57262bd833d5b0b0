package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON read-through cache. Concurrent misses on one key share a
// single loader call.
type Cache struct {
	rdb redis.Cmdable
	sf  singleflight.Group
}

func NewCache(rdb redis.Cmdable) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

func decode[T any](b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

// Fetch returns the cached value under key, or runs load, stores its result
// for ttl and returns it. A corrupt entry is treated as a miss. Failing to
// write the cache does not fail the read.
func Fetch[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if b, ok, err := c.get(ctx, key); err != nil {
		return zero, err
	} else if ok {
		if v, err := decode[T](b); err == nil {
			return v, nil
		}
	}

	res, err, _ := c.sf.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if b, err := json.Marshal(v); err == nil {
			_ = c.rdb.Set(ctx, key, b, ttl).Err()
		}

		return v, nil
	})
	if err != nil {
		return zero, err
	}

	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("cache %s: unexpected %T", key, res)
	}

	return v, nil
}

// InvalidateSlots drops the cached slot list of one weekday.
func (c *Cache) InvalidateSlots(ctx context.Context, restaurantID int64, weekday int) error {
	return c.Del(ctx, KeySlots(restaurantID, weekday))
}

func (c *Cache) InvalidateAvailability(ctx context.Context, restaurantID int64, date time.Time) error {
	return c.Del(ctx, KeyAvailability(restaurantID, date))
}

func (c *Cache) InvalidateMenu(ctx context.Context, restaurantID int64) error {
	return c.Del(ctx, KeyMenu(restaurantID))
}
