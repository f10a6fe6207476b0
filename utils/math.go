package utils

import "math"

// RoundFloat rounds val to the given number of decimal places.
func RoundFloat(val float64, precision int) float64 {
	shift := math.Pow10(precision)
	return math.Round(val*shift) / shift
}
