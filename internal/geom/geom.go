// Package geom provides the single-precision value types used by the arena:
// points, vectors, normalized angles and a quadratic equation solver.
// It has no dependencies on the rest of the module so collision and world
// code stay pure and testable.
package geom

import "github.com/chewxy/math32"

// Epsilon is the absolute tolerance shared by every geometric predicate.
// Touching boundaries must be judged the same way everywhere, so nothing in
// the arena compares floats with == directly.
const Epsilon float32 = 1e-4

// IsZero reports whether v is within Epsilon of zero.
func IsZero(v float32) bool {
	return math32.Abs(v) <= Epsilon
}

// NearlyEqual reports whether a and b differ by at most Epsilon.
func NearlyEqual(a, b float32) bool {
	return math32.Abs(a-b) <= Epsilon
}

// LessOrEqual reports a <= b with tolerance (a may exceed b by Epsilon).
func LessOrEqual(a, b float32) bool {
	return a <= b+Epsilon
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
