package collision

// Element is anything made of one or more primitives: a unit, a shot, the
// board edge. Rough primitives are optional; when present they must enclose
// the exact ones and are only used to reject non-collisions early.
type Element interface {
	Rough() []Primitive
	Exact() []Primitive
}

// Body is the plain Element implementation used by the world.
type Body struct {
	RoughShapes []Primitive
	ExactShapes []Primitive
}

// Rough returns the rough pre-filter primitives.
func (b Body) Rough() []Primitive { return b.RoughShapes }

// Exact returns the primitives used for the definitive test.
func (b Body) Exact() []Primitive { return b.ExactShapes }

// NewBody returns an element with the given exact primitives and no rough filter.
func NewBody(exact ...Primitive) Body {
	return Body{ExactShapes: exact}
}

// WithRough returns a copy of b with the rough filter set.
func (b Body) WithRough(rough ...Primitive) Body {
	b.RoughShapes = rough
	return b
}

// ElementsCollide reports whether two elements collide. When both sides
// carry rough primitives, at least one rough pair must touch before any
// exact pair is tested; an element without rough primitives is filtered
// through its exact shapes instead.
func ElementsCollide(a, b Element) bool {
	aRough, bRough := a.Rough(), b.Rough()
	if len(aRough) > 0 || len(bRough) > 0 {
		if len(aRough) == 0 {
			aRough = a.Exact()
		}
		if len(bRough) == 0 {
			bRough = b.Exact()
		}
		if !anyPair(aRough, bRough) {
			return false
		}
	}
	return anyPair(a.Exact(), b.Exact())
}

// ElementCollidesWith reports whether an element collides with a single
// primitive.
func ElementCollidesWith(e Element, p Primitive) bool {
	if rough := e.Rough(); len(rough) > 0 && !anyHit(rough, p) {
		return false
	}
	return anyHit(e.Exact(), p)
}

func anyPair(as, bs []Primitive) bool {
	for _, a := range as {
		if anyHit(bs, a) {
			return true
		}
	}
	return false
}

func anyHit(ps []Primitive, p Primitive) bool {
	for _, q := range ps {
		if Collides(q, p) {
			return true
		}
	}
	return false
}
