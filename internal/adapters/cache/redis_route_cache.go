package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
)

// RedisRouteCache is a TTL-bounded cache for resolved routes. Route geometry
// is ephemeral by nature (traffic changes, drivers move), so entries expire
// rather than being invalidated explicitly.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// Get fetches a cached resolved route. A miss is (nil, nil).
func (c *RedisRouteCache) Get(
	ctx context.Context,
	profile string,
	waypoints []domain.Coordinate,
) (_ *domain.ResolvedRoute, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if c.Client == nil {
		return nil, errors.New("route cache: redis client is nil")
	}

	payload, err := c.Client.Get(ctx, routeKey(profile, waypoints)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: %w", err)
	}

	var route domain.ResolvedRoute
	if err := json.Unmarshal(payload, &route); err != nil {
		return nil, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return &route, nil
}

// Put stores a resolved route under the quantized waypoint key.
func (c *RedisRouteCache) Put(
	ctx context.Context,
	profile string,
	waypoints []domain.Coordinate,
	route *domain.ResolvedRoute,
) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}
	if route == nil {
		return errors.New("insert route cache: route is nil")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	if err := c.Client.Set(ctx, routeKey(profile, waypoints), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
