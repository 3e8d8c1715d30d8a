package quote

import "math"

// Rounding policy shared by every calculator so downstream display and
// round-trip tests stay deterministic: currency rounds half-up at 2 decimals,
// shipment weights at 3 decimals, single-panel masses at 2 decimals (grams).

func roundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(v*scale+0.5) / scale
}

// RoundCurrency rounds a monetary amount half-up to 2 decimal places.
func RoundCurrency(v float64) float64 {
	return roundHalfUp(v, 2)
}

// RoundWeight rounds a kilogram weight half-up to 3 decimal places.
func RoundWeight(v float64) float64 {
	return roundHalfUp(v, 3)
}

// RoundGrams rounds a gram mass half-up to 2 decimal places.
func RoundGrams(v float64) float64 {
	return roundHalfUp(v, 2)
}
