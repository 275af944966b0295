package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
)

// SQLRouteCache is a SQL-backed cache for resolved routes, for deployments
// that already run Postgres and prefer a persistent cache over Redis.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// InitSchema creates the route cache table if it does not exist.
func (s *SQLRouteCache) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key  TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init route cache schema: %w", err)
	}
	return nil
}

// Get fetches a cached resolved route. A miss is (nil, nil).
func (s *SQLRouteCache) Get(
	ctx context.Context,
	profile string,
	waypoints []domain.Coordinate,
) (_ *domain.ResolvedRoute, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	q := `
	SELECT payload
	FROM route_cache
	WHERE cache_key = $1;
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, routeKey(profile, waypoints)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var route domain.ResolvedRoute
	if err := json.Unmarshal(payload, &route); err != nil {
		return nil, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return &route, nil
}

// Put stores a resolved route, replacing any existing entry for the key.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	profile string,
	waypoints []domain.Coordinate,
	route *domain.ResolvedRoute,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if route == nil {
		return errors.New("insert route cache: route is nil")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	q := `
	INSERT INTO route_cache (cache_key, payload)
	VALUES ($1, $2)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = now();
	`

	if _, err := s.DB.ExecContext(ctx, q, routeKey(profile, waypoints), payload); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
