package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB", for one
// channel in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

func Clamp(f, min, max float64) float64 {
	if f < min { return min }
	if f > max { return max }
	return f
}

// Clamp01 also maps NaN to zero
func Clamp01(f float64) float64 {
	if !(f > 0.0) { return 0.0 }
	if f > 1.0 { return 1.0 }
	return f
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Log2Floor is log2(max(f, eps)); keeps zero and negative values off the log
func Log2Floor(f, eps float64) float64 {
	if !(f > eps) { f = eps }
	return math.Log2(f)
}
