package vmath

import "math"

// Epsilon is the magnitude below which a vector is treated as zero-length
const Epsilon = 1e-9

var UnitX = Vec2{1, 0}

// IsFinite reports whether f is neither NaN nor ±Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp limits v to [lo, hi], NaN maps to lo
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates a→b by t without clamping
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PowFrames applies a per-frame multiplicative factor over k frames
// k is fractional for variable frame times; base outside (0,1] is clamped
func PowFrames(base, k float64) float64 {
	if k <= 0 {
		return 1
	}
	base = Clamp(base, 0, 1)
	if base == 1 {
		return 1
	}
	return math.Pow(base, k)
}
