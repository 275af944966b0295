package dto

type CoordinateDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type StopDTO struct {
	ID   string  `json:"id"`
	Name string  `json:"name,omitempty"`
	Kind string  `json:"kind,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type PlanRequest struct {
	Origin   CoordinateDTO `json:"origin"`
	Pickups  []StopDTO     `json:"pickups"`
	Dropoffs []StopDTO     `json:"dropoffs"`
}

type PlanResponse struct {
	Stops            []StopDTO `json:"stops"`
	TotalDistanceKm  float64   `json:"total_distance_km"`
	EstimatedMinutes float64   `json:"estimated_minutes"`
}

type ResolveRequest struct {
	Waypoints []CoordinateDTO `json:"waypoints"`
	Profile   string          `json:"profile"`
	Steps     bool            `json:"steps"`
}

type RouteLegResponse struct {
	Index       int     `json:"index"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

type ResolveResponse struct {
	Coordinates []CoordinateDTO    `json:"coordinates"`
	DistanceKm  float64            `json:"distance_km"`
	DurationMin int                `json:"duration_min"`
	Legs        []RouteLegResponse `json:"legs"`
}

type DecodeRequest struct {
	Polyline string `json:"polyline"`
}

type DecodeResponse struct {
	Coordinates []CoordinateDTO `json:"coordinates"`
}
