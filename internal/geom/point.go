package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Point is a position on the board. The board uses mathematical orientation:
// x grows to the right, y grows upwards.
type Point struct {
	X, Y float32
}

// Vector is a displacement between two points.
type Vector struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float32) Vector {
	return Vector{X: x, Y: y}
}

// Add returns the point translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{X: p.X - o.X, Y: p.Y - o.Y}
}

// DistanceSq returns the squared distance between two points.
func (p Point) DistanceSq(o Point) float32 {
	return p.Sub(o).LenSq()
}

// Distance returns the distance between two points.
func (p Point) Distance(o Point) float32 {
	return math32.Sqrt(p.DistanceSq(o))
}

// NearlyEqual compares two points with the shared tolerance.
func (p Point) NearlyEqual(o Point) bool {
	return NearlyEqual(p.X, o.X) && NearlyEqual(p.Y, o.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by s.
func (v Vector) Scale(s float32) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product.
func (v Vector) Dot(o Vector) float32 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product v x o.
// Positive when o lies counter-clockwise of v.
func (v Vector) Cross(o Vector) float32 {
	return v.X*o.Y - v.Y*o.X
}

// LenSq returns the squared length.
func (v Vector) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the length.
func (v Vector) Len() float32 {
	return math32.Sqrt(v.LenSq())
}

// IsZero reports whether the vector has (tolerance) zero length.
func (v Vector) IsZero() bool {
	return IsZero(v.X) && IsZero(v.Y)
}

// Normalize returns the unit vector with the same direction.
// The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	l := v.Len()
	if IsZero(l) {
		return Vector{}
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Perp returns v rotated by +90 degrees.
func (v Vector) Perp() Vector {
	return Vector{X: -v.Y, Y: v.X}
}

// Rotate returns v rotated counter-clockwise by a.
func (v Vector) Rotate(a Angle) Vector {
	r := a.Radians()
	s, c := math32.Sin(r), math32.Cos(r)
	return Vector{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Angle returns the direction of v. The zero vector has angle 0.
func (v Vector) Angle() Angle {
	if v.IsZero() {
		return Angle{}
	}
	return FromRadians(math32.Atan2(v.Y, v.X))
}
