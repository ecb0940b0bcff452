package fog

import (
	"math"
)

// ConfigureResolution picks the fog raster resolution for a scene of w by h
// units. The result keeps w*res and h*res whole numbers so repeated commits do
// not drift by sub-pixels, and keeps both no larger than maxSize. When the
// dimensions share no divisor that allows both, the largest resolution under
// maxSize is returned instead.
func ConfigureResolution(w, h float64, maxSize int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	if maxSize <= 0 {
		maxSize = MaxTextureSize
	}
	limit := math.Min(1, float64(maxSize)/math.Max(w, h))

	g := gcd(int64(math.Round(w)), int64(math.Round(h)))
	if g <= 0 || math.Round(w) != w || math.Round(h) != h {
		return limit
	}
	k := math.Floor(limit*float64(g) + 1e-9)
	if k < 1 {
		return limit
	}
	return k / float64(g)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
