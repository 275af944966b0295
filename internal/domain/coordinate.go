package domain

import "math"

// Mean Earth radius in kilometers (WGS-84).
const earthRadiusKm = 6371.0

// Immutable geographic coordinate (latitude, longitude) in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Return the coordinate as [lon, lat] for external routing API compatibility.
// OSRM (and most GeoJSON consumers) order axes longitude-first.
func (c Coordinate) LonLat() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether both components are finite and within WGS-84 bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers using the Haversine formula. The formula is symmetric in its
// inputs and returns exactly zero for identical points. Behavior on
// non-finite input is undefined (NaN propagates).
func DistanceKm(a, b Coordinate) float64 {
	latA := degToRad(a.Lat)
	latB := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// PathDistanceKm returns the summed Haversine distance over consecutive
// points of an ordered path. Paths with fewer than two points have zero length.
func PathDistanceKm(path []Coordinate) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += DistanceKm(path[i], path[i+1])
	}
	return total
}

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }
