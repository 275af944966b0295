package domain

// RoutePlan is the output of stop sequencing: an ordered visiting sequence
// with straight-line distance and dwell-adjusted time estimates.
// It is immutable planning data and contains no side effects. The stop list
// is always a permutation of the sequencer's input.
type RoutePlan struct {
	Stops            []Stop
	TotalDistanceKm  float64
	EstimatedMinutes float64
}

// RouteLeg describes the portion of a resolved route between two consecutive
// waypoints.
type RouteLeg struct {
	Index       int
	DistanceKm  float64
	DurationMin int
}

// ResolvedRoute is a road-following route returned by an external routing
// service: the full polyline geometry in client axis order (lat, lon), total
// metrics, and a per-leg breakdown. A resolved route is created fresh on every
// resolution and never mutated in place.
//
// For n waypoints the service returns n-1 legs.
type ResolvedRoute struct {
	Coordinates []Coordinate
	DistanceKm  float64
	DurationMin int
	Legs        []RouteLeg
}
