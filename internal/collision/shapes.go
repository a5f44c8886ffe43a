// Package collision implements exact collision tests between the convex
// primitives used by the arena (points, circles, line segments and convex
// polygons) and between composite elements built from them.
//
// Every predicate is symmetric and treats touching as colliding, using the
// shared tolerance from package geom.
package collision

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/chicken-war/internal/geom"
)

var (
	// ErrDegenerate is returned for polygons with fewer than three distinct
	// vertices or zero area.
	ErrDegenerate = errors.New("collision: degenerate polygon")

	// ErrNotConvex is returned for polygons that are not convex.
	ErrNotConvex = errors.New("collision: polygon is not convex")
)

// Primitive is one of Point, Circle, Segment or Polygon.
type Primitive interface {
	primitive()
}

// Point is a single position used as a primitive.
type Point struct {
	P geom.Point
}

// Circle is a disc given by its center and radius.
type Circle struct {
	Center geom.Point
	Radius float32
}

// Segment is the closed line segment between Start and End.
type Segment struct {
	Start, End geom.Point
}

// Polygon is an immutable convex polygon. Vertices are kept in
// counter-clockwise order and the edge list is precomputed.
type Polygon struct {
	vertices []geom.Point
	edges    []Segment
	normals  []geom.Vector // outward unit normals, one per edge
	lengths  []float32
}

func (Point) primitive()   {}
func (Circle) primitive()  {}
func (Segment) primitive() {}
func (Polygon) primitive() {}

// Vec returns End - Start.
func (s Segment) Vec() geom.Vector {
	return s.End.Sub(s.Start)
}

// Translate returns the segment moved by v.
func (s Segment) Translate(v geom.Vector) Segment {
	return Segment{Start: s.Start.Add(v), End: s.End.Add(v)}
}

// Translate returns the circle moved by v.
func (c Circle) Translate(v geom.Vector) Circle {
	return Circle{Center: c.Center.Add(v), Radius: c.Radius}
}

// NewPolygon builds a convex polygon from its vertices in either winding
// order. Collinear vertices are dropped.
func NewPolygon(vertices ...geom.Point) (Polygon, error) {
	pts := dedupe(vertices)
	if len(pts) < 3 {
		return Polygon{}, fmt.Errorf("%w: %d distinct vertices", ErrDegenerate, len(pts))
	}

	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	// Drop collinear vertices so every edge has a well-defined normal.
	kept := make([]geom.Point, 0, len(pts))
	for i := range pts {
		prev := pts[(i+len(pts)-1)%len(pts)]
		next := pts[(i+1)%len(pts)]
		turn := pts[i].Sub(prev).Cross(next.Sub(pts[i]))
		if geom.IsZero(turn) {
			continue
		}
		if turn < 0 {
			return Polygon{}, ErrNotConvex
		}
		kept = append(kept, pts[i])
	}
	if len(kept) < 3 || geom.IsZero(signedArea(kept)) {
		return Polygon{}, ErrDegenerate
	}
	// Left turns everywhere still admits self-intersecting stars.
	for i := range kept {
		a, b := kept[i], kept[(i+1)%len(kept)]
		for _, v := range kept {
			if b.Sub(a).Cross(v.Sub(a)) < -geom.Epsilon {
				return Polygon{}, ErrNotConvex
			}
		}
	}

	p := Polygon{
		vertices: kept,
		edges:    make([]Segment, len(kept)),
		normals:  make([]geom.Vector, len(kept)),
		lengths:  make([]float32, len(kept)),
	}
	for i := range kept {
		e := Segment{Start: kept[i], End: kept[(i+1)%len(kept)]}
		p.edges[i] = e
		d := e.Vec()
		p.lengths[i] = d.Len()
		// Outward normal of a counter-clockwise edge points to its right.
		p.normals[i] = geom.Vec(d.Y, -d.X).Normalize()
	}
	return p, nil
}

// MustPolygon is NewPolygon for literals known to be valid. It panics on error.
func MustPolygon(vertices ...geom.Point) Polygon {
	p, err := NewPolygon(vertices...)
	if err != nil {
		panic(err)
	}
	return p
}

// Rect returns the axis-aligned rectangle polygon [x0,x1] x [y0,y1].
func Rect(x0, y0, x1, y1 float32) Polygon {
	return MustPolygon(geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1))
}

// Vertices returns a copy of the vertices in counter-clockwise order.
func (p Polygon) Vertices() []geom.Point {
	out := make([]geom.Point, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Edges returns a copy of the edge list.
func (p Polygon) Edges() []Segment {
	out := make([]Segment, len(p.edges))
	copy(out, p.edges)
	return out
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.vertices)
}

// Translate returns the polygon moved by v. Winding and convexity carry over.
func (p Polygon) Translate(v geom.Vector) Polygon {
	out := Polygon{
		vertices: make([]geom.Point, len(p.vertices)),
		edges:    make([]Segment, len(p.edges)),
		normals:  p.normals,
		lengths:  p.lengths,
	}
	for i, vtx := range p.vertices {
		out.vertices[i] = vtx.Add(v)
	}
	for i, e := range p.edges {
		out.edges[i] = e.Translate(v)
	}
	return out
}

// project returns the interval covered by the polygon on axis.
func (p Polygon) project(axis geom.Vector) (lo, hi float32) {
	lo = geom.Vec(p.vertices[0].X, p.vertices[0].Y).Dot(axis)
	hi = lo
	for _, v := range p.vertices[1:] {
		d := geom.Vec(v.X, v.Y).Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

func signedArea(pts []geom.Point) float32 {
	var sum float32
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func dedupe(vertices []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(vertices))
	for _, v := range vertices {
		if len(out) > 0 && out[len(out)-1].NearlyEqual(v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) > 1 && out[0].NearlyEqual(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}
