package common

import "math"

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float64: v clamped to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Step returns 0 when x is below edge and 1 otherwise, matching the WGSL step builtin.
func Step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// Smoothstep performs Hermite interpolation between 0 and 1 as x moves from edge0 to edge1,
// matching the WGSL smoothstep builtin. Reversed edges (edge0 > edge1) produce a falling curve.
//
// Parameters:
//   - edge0: the value of x at which the result is 0
//   - edge1: the value of x at which the result is 1
//   - x: the input value
//
// Returns:
//   - float64: the interpolated value in [0, 1]
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		return Step(edge0, x)
	}
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Length2 returns the euclidean length of the 2D vector (x, y).
func Length2(x, y float64) float64 {
	return math.Hypot(x, y)
}

// Mat2MulVec multiplies a column-major 2x2 matrix by a 2D vector.
// The matrix is given as its two columns (c0x, c0y) and (c1x, c1y).
//
// Returns:
//   - float64, float64: the transformed vector
func Mat2MulVec(c0x, c0y, c1x, c1y, x, y float64) (float64, float64) {
	return c0x*x + c1x*y, c0y*x + c1y*y
}
