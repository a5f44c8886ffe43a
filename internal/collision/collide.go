package collision

import (
	"github.com/vovakirdan/chicken-war/internal/geom"
)

// Collides reports whether two primitives touch or overlap.
func Collides(a, b Primitive) bool {
	switch a := a.(type) {
	case Point:
		switch b := b.(type) {
		case Point:
			return a.P.NearlyEqual(b.P)
		case Circle:
			return PointInCircle(a.P, b)
		case Segment:
			return PointOnSegment(a.P, b)
		case Polygon:
			return PointInPolygon(a.P, b)
		}
	case Circle:
		switch b := b.(type) {
		case Point:
			return PointInCircle(b.P, a)
		case Circle:
			return CirclesOverlap(a, b)
		case Segment:
			return SegmentCircle(b, a)
		case Polygon:
			return CirclePolygon(a, b)
		}
	case Segment:
		switch b := b.(type) {
		case Point:
			return PointOnSegment(b.P, a)
		case Circle:
			return SegmentCircle(a, b)
		case Segment:
			return SegmentsIntersect(a, b)
		case Polygon:
			return SegmentPolygon(a, b)
		}
	case Polygon:
		switch b := b.(type) {
		case Point:
			return PointInPolygon(b.P, a)
		case Circle:
			return CirclePolygon(b, a)
		case Segment:
			return SegmentPolygon(b, a)
		case Polygon:
			return PolygonsOverlap(a, b)
		}
	}
	return false
}

// PointInCircle reports whether p lies inside or on c.
func PointInCircle(p geom.Point, c Circle) bool {
	r := c.Radius + geom.Epsilon
	return p.DistanceSq(c.Center) <= r*r
}

// PointOnSegment reports whether p lies on s within tolerance.
func PointOnSegment(p geom.Point, s Segment) bool {
	d := s.Vec()
	l2 := d.LenSq()
	if geom.IsZero(l2) {
		return p.NearlyEqual(s.Start)
	}
	t := geom.Clamp(p.Sub(s.Start).Dot(d)/l2, 0, 1)
	closest := s.Start.Add(d.Scale(t))
	return p.DistanceSq(closest) <= geom.Epsilon*geom.Epsilon
}

// PointInPolygon reports whether p is inside or on the boundary of poly.
// A point is outside only when it lies strictly to the right of some
// counter-clockwise edge.
func PointInPolygon(p geom.Point, poly Polygon) bool {
	for i, e := range poly.edges {
		dist := e.Vec().Cross(p.Sub(e.Start)) / poly.lengths[i]
		if dist < -geom.Epsilon {
			return false
		}
	}
	return len(poly.edges) > 0
}

// SegmentsIntersect solves the 2x2 system Start_a + t*ra = Start_b + u*rb
// with Cramer's rule. Both parameters must fall in [0,1]. Parallel
// segments only collide when they are collinear and their extents overlap.
func SegmentsIntersect(a, b Segment) bool {
	r := a.Vec()
	s := b.Vec()
	q := b.Start.Sub(a.Start)

	denom := r.Cross(s)
	numT := q.Cross(s)
	numU := q.Cross(r)

	if geom.IsZero(denom) {
		if !geom.IsZero(numT) || !geom.IsZero(numU) {
			return false
		}
		return collinearOverlap(a, b)
	}

	t := numT / denom
	u := numU / denom
	return inUnit(t) && inUnit(u)
}

// collinearOverlap checks two collinear segments for a shared stretch.
func collinearOverlap(a, b Segment) bool {
	r := a.Vec()
	if geom.IsZero(r.LenSq()) {
		return PointOnSegment(a.Start, b)
	}
	axis := r.Normalize()
	a0 := geom.Vec(a.Start.X, a.Start.Y).Dot(axis)
	a1 := geom.Vec(a.End.X, a.End.Y).Dot(axis)
	b0 := geom.Vec(b.Start.X, b.Start.Y).Dot(axis)
	b1 := geom.Vec(b.End.X, b.End.Y).Dot(axis)
	return intervalsTouch(min(a0, a1), max(a0, a1), min(b0, b1), max(b0, b1))
}

// SegmentCircle reports whether a segment touches a circle: either an
// endpoint lies in the circle or the segment's supporting line crosses the
// circle at a parameter within the segment.
func SegmentCircle(s Segment, c Circle) bool {
	if PointInCircle(s.Start, c) || PointInCircle(s.End, c) {
		return true
	}

	d := s.Vec()
	f := s.Start.Sub(c.Center)
	r := c.Radius + geom.Epsilon
	a := d.Dot(d)
	b := 2 * f.Dot(d)
	cc := f.Dot(f) - r*r

	if geom.Discriminant(a, b, cc) < 0 {
		return false
	}
	roots, n := geom.SolveQuadratic(a, b, cc)
	for i := 0; i < n; i++ {
		if inUnit(roots[i]) {
			return true
		}
	}
	return false
}

// SegmentPolygon reports whether a segment touches a convex polygon.
func SegmentPolygon(s Segment, poly Polygon) bool {
	if PointInPolygon(s.Start, poly) || PointInPolygon(s.End, poly) {
		return true
	}
	for _, e := range poly.edges {
		if SegmentsIntersect(s, e) {
			return true
		}
	}
	return false
}

// CirclesOverlap reports whether two circles touch or overlap.
func CirclesOverlap(a, b Circle) bool {
	r := a.Radius + b.Radius + geom.Epsilon
	return a.Center.DistanceSq(b.Center) <= r*r
}

// CirclePolygon reports whether a circle touches a convex polygon.
func CirclePolygon(c Circle, poly Polygon) bool {
	if PointInPolygon(c.Center, poly) {
		return true
	}
	for _, e := range poly.edges {
		if SegmentCircle(e, c) {
			return true
		}
	}
	return false
}

// PolygonsOverlap applies the separating axis theorem. Every edge normal of
// both polygons is tried; intervals that merely touch are not separated.
func PolygonsOverlap(a, b Polygon) bool {
	if len(a.vertices) == 0 || len(b.vertices) == 0 {
		return false
	}
	for _, axis := range a.normals {
		if separated(a, b, axis) {
			return false
		}
	}
	for _, axis := range b.normals {
		if separated(a, b, axis) {
			return false
		}
	}
	return true
}

func separated(a, b Polygon, axis geom.Vector) bool {
	aLo, aHi := a.project(axis)
	bLo, bHi := b.project(axis)
	return !intervalsTouch(aLo, aHi, bLo, bHi)
}

func intervalsTouch(aLo, aHi, bLo, bHi float32) bool {
	return geom.LessOrEqual(aLo, bHi) && geom.LessOrEqual(bLo, aHi)
}

func inUnit(t float32) bool {
	return t >= -geom.Epsilon && t <= 1+geom.Epsilon
}
