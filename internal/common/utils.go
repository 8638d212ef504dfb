package common

import "math"

// RoundTo rounds x to the given number of decimal places, half away from zero.
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// AtLeast returns x, or min when x is below it.
func AtLeast(x, min float64) float64 {
	if x < min {
		return min
	}
	return x
}
