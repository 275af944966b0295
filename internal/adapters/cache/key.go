package cache

import (
	"strings"

	"github.com/mmcloughlin/geohash"

	"courier-route-service/internal/domain"
)

// geohashChars gives ~±2.4 m cells: consecutive GPS fixes of a stationary
// driver map to the same key, while genuinely different stops do not.
const geohashChars = 9

// routeKey builds a cache key from the profile and the quantized waypoint
// sequence. Order matters: a reversed route is a different route.
func routeKey(profile string, waypoints []domain.Coordinate) string {
	parts := make([]string, 0, 1+len(waypoints))
	parts = append(parts, profile)
	for _, wp := range waypoints {
		parts = append(parts, geohash.EncodeWithPrecision(wp.Lat, wp.Lon, geohashChars))
	}
	return strings.Join(parts, ";")
}
