package geom

import "github.com/chewxy/math32"

// SolveQuadratic solves a*x^2 + b*x + c = 0 and returns the real roots in
// ascending order along with their count (0, 1 or 2). A tolerance-zero
// discriminant yields a single root. A tolerance-zero leading coefficient
// degrades to the linear equation.
func SolveQuadratic(a, b, c float32) (roots [2]float32, n int) {
	if IsZero(a) {
		if IsZero(b) {
			return roots, 0
		}
		roots[0] = -c / b
		return roots, 1
	}

	disc := b*b - 4*a*c
	if IsZero(disc) {
		roots[0] = -b / (2 * a)
		return roots, 1
	}
	if disc < 0 {
		return roots, 0
	}

	sq := math32.Sqrt(disc)
	// Numerically stable form: avoid subtracting nearly equal values.
	var q float32
	if b < 0 {
		q = -0.5 * (b - sq)
	} else {
		q = -0.5 * (b + sq)
	}
	x1 := q / a
	var x2 float32
	if q != 0 {
		x2 = c / q
	} else {
		x2 = -x1
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	roots[0], roots[1] = x1, x2
	return roots, 2
}

// Discriminant returns b^2 - 4ac.
func Discriminant(a, b, c float32) float32 {
	return b*b - 4*a*c
}
