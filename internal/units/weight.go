package units

import (
	"math"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// SteelDensity is carbon steel in lb/in³.
const SteelDensity = 0.2836

// Weight confidence tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// TheoreticalWeight returns the expected pounds for pieces of size. A positive
// weightPerArea (lb/ft²) takes precedence over the density calculation.
func TheoreticalWeight(size entity.ParsedSize, pieces int, weightPerArea float64) float64 {
	if pieces < 1 {
		pieces = 1
	}
	if weightPerArea > 0 {
		return weightPerArea * (size.Width * size.Length / 144) * float64(pieces)
	}
	return size.Thickness * size.Width * size.Length * SteelDensity * float64(pieces)
}

// WeightConfidence compares an extracted weight with its theoretical value.
func WeightConfidence(actual, theoretical float64) string {
	if actual <= 0 || theoretical <= 0 {
		return ConfidenceLow
	}
	dev := math.Abs(actual-theoretical) / theoretical
	switch {
	case dev <= 0.10:
		return ConfidenceHigh
	case dev <= 0.25:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
