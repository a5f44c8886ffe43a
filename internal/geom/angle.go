package geom

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Angle is a direction in degrees, normalized to the half-open range
// (-180, 180]. 0 points along +x and positive angles turn counter-clockwise.
type Angle struct {
	deg float32
}

// NewAngle returns the normalized angle for deg degrees.
func NewAngle(deg float32) Angle {
	return Angle{deg: Normalize(deg)}
}

// FromRadians returns the normalized angle for r radians.
func FromRadians(r float32) Angle {
	return NewAngle(r * 180 / math32.Pi)
}

// Normalize maps any degree value into (-180, 180].
func Normalize(deg float32) float32 {
	if math32.IsNaN(deg) || math32.IsInf(deg, 0) {
		return 0
	}
	a := math32.Mod(deg, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	// -0 and 0 must compare bit-equal
	if a == 0 {
		return 0
	}
	return a
}

// Degrees returns the normalized value in degrees.
func (a Angle) Degrees() float32 {
	return a.deg
}

// Radians returns the normalized value in radians.
func (a Angle) Radians() float32 {
	return a.deg * math32.Pi / 180
}

// Add returns a+b, renormalized.
func (a Angle) Add(b Angle) Angle {
	return NewAngle(a.deg + b.deg)
}

// AddDegrees returns a+deg, renormalized.
func (a Angle) AddDegrees(deg float32) Angle {
	return NewAngle(a.deg + deg)
}

// Sub returns a-b, renormalized. The result is the signed shortest turn
// that brings b onto a.
func (a Angle) Sub(b Angle) Angle {
	return NewAngle(a.deg - b.deg)
}

// Unit returns the unit vector pointing along a.
func (a Angle) Unit() Vector {
	r := a.Radians()
	return Vector{X: math32.Cos(r), Y: math32.Sin(r)}
}

// Equal reports whether the normalized values are bit-identical.
func (a Angle) Equal(b Angle) bool {
	return math.Float32bits(a.deg) == math.Float32bits(b.deg)
}

func (a Angle) String() string {
	return fmt.Sprintf("%.2f°", a.deg)
}

// AngleTo returns the direction from one point towards another.
func AngleTo(from, to Point) Angle {
	return to.Sub(from).Angle()
}
