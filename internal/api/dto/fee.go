package dto

// FeeQuoteResponse carries a nil fee when the distance is unknown.
type FeeQuoteResponse struct {
	DistanceKm *float64 `json:"distance_km"`
	Fee        *float64 `json:"fee"`
}
