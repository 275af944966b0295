package ports

import (
	"context"

	"courier-route-service/internal/domain"
)

// Port: a boundary for caching resolved routes keyed by profile and waypoint
// sequence. Implementations quantize waypoints so near-identical GPS fixes
// share an entry.
type RouteCache interface {
	// Get returns the cached route, or (nil, nil) on a miss.
	Get(ctx context.Context, profile string, waypoints []domain.Coordinate) (*domain.ResolvedRoute, error)
	// Put stores a resolved route. Overwrites any existing entry for the key.
	Put(ctx context.Context, profile string, waypoints []domain.Coordinate, route *domain.ResolvedRoute) error
}
