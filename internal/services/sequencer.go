package services

import (
	"slices"

	"courier-route-service/internal/domain"
)

// Assumed average city driving speed used for time estimation when no road
// routing engine is consulted.
const AverageSpeedKmh = 30.0

// Fixed handover time budgeted at every pickup and dropoff.
const StopDwellMinutes = 5.0

// OrderStops sequences stops using a greedy nearest-neighbor tour from the
// origin: at each step the remaining stop closest (Haversine) to the current
// position is visited next. Exact distance ties go to the earlier stop in
// input order, so the result is deterministic.
//
// The output is always a permutation of the input; the origin itself is never
// included. Zero and single-stop inputs are returned unchanged (copied).
//
// This is O(n²) and deliberately greedy; realistic stacked-delivery counts
// are small, and a locally-optimal tour is accepted in exchange for
// simplicity. It is not a shortest-tour solver.
func OrderStops(origin domain.Coordinate, stops []domain.Stop) []domain.Stop {
	if len(stops) <= 1 {
		return slices.Clone(stops)
	}

	remaining := slices.Clone(stops)
	ordered := make([]domain.Stop, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := 0
		bestDist := domain.DistanceKm(current, remaining[0].Coordinate)

		// Strict less-than keeps the first occurrence on exact ties.
		for i := 1; i < len(remaining); i++ {
			if d := domain.DistanceKm(current, remaining[i].Coordinate); d < bestDist {
				best = i
				bestDist = d
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Coordinate
		remaining = slices.Delete(remaining, best, best+1)
	}

	return ordered
}

// PlanStackedRoute builds a visiting plan for a driver holding multiple
// active deliveries: all pickups are sequenced first (nearest-neighbor from
// the driver's position), then all dropoffs are sequenced from the last
// pickup, or directly from the origin when there are no pickups.
//
// Total distance sums the consecutive Haversine legs of the full chain
// origin -> orderedPickups -> orderedDropoffs. Estimated minutes assume
// AverageSpeedKmh cruise plus StopDwellMinutes at every stop.
func PlanStackedRoute(origin domain.Coordinate, pickups, dropoffs []domain.Stop) *domain.RoutePlan {
	orderedPickups := OrderStops(origin, pickups)

	dropoffStart := origin
	if len(orderedPickups) > 0 {
		dropoffStart = orderedPickups[len(orderedPickups)-1].Coordinate
	}
	orderedDropoffs := OrderStops(dropoffStart, dropoffs)

	stops := make([]domain.Stop, 0, len(orderedPickups)+len(orderedDropoffs))
	stops = append(stops, orderedPickups...)
	stops = append(stops, orderedDropoffs...)

	chain := make([]domain.Coordinate, 0, 1+len(stops))
	chain = append(chain, origin)
	for _, s := range stops {
		chain = append(chain, s.Coordinate)
	}

	totalKm := domain.PathDistanceKm(chain)
	minutes := (totalKm/AverageSpeedKmh)*60 + StopDwellMinutes*float64(len(stops))

	return &domain.RoutePlan{
		Stops:            stops,
		TotalDistanceKm:  totalKm,
		EstimatedMinutes: minutes,
	}
}
