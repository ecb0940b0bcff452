package geometry

import "math"

// TwoPi is a full turn in radians
const TwoPi = 2 * math.Pi

// NormalizeRadians maps an angle onto [0, 2π)
func NormalizeRadians(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// ToRadians converts degrees to radians
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDegrees converts radians to degrees
func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// AngleTo returns the atan2 angle from origin to p, normalized to [0, 2π)
func AngleTo(origin, p Point) float64 {
	return NormalizeRadians(math.Atan2(p.Y-origin.Y, p.X-origin.X))
}
