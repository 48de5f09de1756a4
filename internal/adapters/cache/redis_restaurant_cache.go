package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

// RedisRestaurantCache decorates a RestaurantFinder with a Redis read-through
// cache. Restaurant answers are keyed by rounded coordinates plus radius, so
// repeated meal insertions around the same attractions stop hitting the
// upstream geocoder.
//
// The cache is strictly best effort: a Redis outage logs a warning and falls
// through to the inner finder, never failing the lookup.
type RedisRestaurantCache struct {
	inner ports.RestaurantFinder
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewRedisRestaurantCache(inner ports.RestaurantFinder, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisRestaurantCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisRestaurantCache{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func restaurantKey(at domain.Coordinates, radiusMeters int) string {
	return fmt.Sprintf("restaurant:%s:%d", CoordKey(at), radiusMeters)
}

// FindNear serves cached answers when Redis has one, otherwise asks the
// inner finder and stores the result.
func (c *RedisRestaurantCache) FindNear(ctx context.Context, at domain.Coordinates, radiusMeters int) (domain.Restaurant, error) {
	key := restaurantKey(at, radiusMeters)

	data, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var r domain.Restaurant
		if err := json.Unmarshal([]byte(data), &r); err == nil {
			return r, nil
		}
		c.log.Warn("malformed cached restaurant, refetching", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("restaurant cache read failed", zap.String("key", key), zap.Error(err))
	}

	r, err := c.inner.FindNear(ctx, at, radiusMeters)
	if err != nil {
		return r, err
	}

	if c.ttl > 0 {
		if data, err := json.Marshal(r); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				c.log.Warn("restaurant cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return r, nil
}

// ListNear passes straight through: candidate lists back the browse endpoint
// where staleness is more visible than a repeated lookup is expensive.
func (c *RedisRestaurantCache) ListNear(ctx context.Context, at domain.Coordinates, radiusMeters, limit int) ([]domain.Restaurant, error) {
	return c.inner.ListNear(ctx, at, radiusMeters, limit)
}
