package ports

import (
	"context"

	"courier-route-service/internal/domain"
)

// ResolveOptions selects the routing profile and response detail level.
type ResolveOptions struct {
	// Profile is the routing profile ("driving", "cycling", ...). Empty means
	// the resolver's default.
	Profile string
	// Steps requests turn-by-turn step detail on each leg.
	Steps bool
}

// Contract for resolving an ordered waypoint sequence into a road-following
// route. Implementations must not panic across this boundary: every failure
// (insufficient input, transport error, service rejection, malformed payload)
// surfaces as an error return, never as a partial route.
type RouteResolver interface {
	// Resolve a route visiting the given waypoints in order.
	// At least two waypoints are required.
	Resolve(ctx context.Context, waypoints []domain.Coordinate, opts ResolveOptions) (*domain.ResolvedRoute, error)
}
