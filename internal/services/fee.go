package services

import "math"

// Delivery fee tiers in currency units. Distances at or under the flat-tier
// bounds pay the tier price; beyond the last tier every started 100 m block
// is billed in full.
const (
	feeTier1Km     = 1.0
	feeTier1       = 50.0
	feeTier2Km     = 2.0
	feeTier2       = 80.0
	feeTier3Km     = 2.5
	feeTier3       = 87.0
	feePerBlock    = 2.3
	feeBlockMeters = 100.0
)

// DeliveryFee maps a trip distance to its tiered delivery fee. Pure and total
// over non-negative distances; evaluation order matters and the first
// matching tier wins.
func DeliveryFee(distanceKm float64) float64 {
	switch {
	case distanceKm <= feeTier1Km:
		return feeTier1
	case distanceKm <= feeTier2Km:
		return feeTier2
	case distanceKm <= feeTier3Km:
		return feeTier3
	default:
		// Quantize to whole meters before dividing into blocks, otherwise
		// binary float noise (2.6-2.5 > 0.1) mints a phantom block.
		meters := math.Round((distanceKm - feeTier3Km) * 1000)
		blocks := math.Ceil(meters / feeBlockMeters)
		return feeTier3 + blocks*feePerBlock
	}
}

// DeliveryFeeQuote propagates an unknown distance: nil in, nil out.
// Callers that cannot measure a distance pass nil instead of a guess.
func DeliveryFeeQuote(distanceKm *float64) *float64 {
	if distanceKm == nil {
		return nil
	}
	fee := DeliveryFee(*distanceKm)
	return &fee
}
