// Package world holds the authoritative arena state and the deterministic
// per-tick resolution of moves, shots, collisions and deaths.
//
// A World is owned by a single goroutine. Nothing in this package locks.
package world

import (
	"github.com/vovakirdan/chicken-war/internal/collision"
	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
)

// NeverFired is the LastShotTick of a unit that has not fired yet.
const NeverFired int64 = -1

// shotMargin keeps a freshly spawned shot clear of its own beak.
const shotMargin float32 = 0.01

// Unit is one chicken. It is mutated only by World.
type Unit struct {
	ID       logic.UnitID
	Team     logic.Team
	Position geom.Point
	Angle    geom.Angle
	Alive    bool
	Kills    int
	KilledBy logic.UnitID

	LastShotTick int64

	LastMove    *logic.MoveInfo
	LastOutcome logic.MoveOutcome
	Obstruction logic.UnitID
}

// Element returns the unit's collidable body at its current pose.
func (u *Unit) Element(r logic.Rules) collision.Body {
	return UnitElement(u.Position, u.Angle, r)
}

// BeakTip returns the point the beak is pointing at.
func (u *Unit) BeakTip(r logic.Rules) geom.Point {
	return u.Position.Add(u.Angle.Unit().Scale(r.Reach()))
}

// OffCooldown reports whether enough ticks passed since the last shot.
func (u *Unit) OffCooldown(tick uint64, r logic.Rules) bool {
	if u.LastShotTick == NeverFired {
		return true
	}
	return int64(tick)-u.LastShotTick >= int64(r.CooldownTicks)
}

// UnitElement builds the body of a unit standing at pos facing angle.
// The exact shapes are the body circle and the beak triangle; the rough
// shape is a circle enclosing both.
func UnitElement(pos geom.Point, angle geom.Angle, r logic.Rules) collision.Body {
	body := collision.Circle{Center: pos, Radius: r.UnitRadius}

	dir := angle.Unit()
	side := dir.Perp().Scale(r.BeakWidth / 2)
	base := pos.Add(dir.Scale(r.UnitRadius / 2))
	tip := pos.Add(dir.Scale(r.Reach()))

	b := collision.NewBody(body)
	if beak, err := collision.NewPolygon(base.Add(side), base.Add(side.Scale(-1)), tip); err == nil {
		b = collision.NewBody(body, beak)
	}
	return b.WithRough(collision.Circle{Center: pos, Radius: roughRadius(r)})
}

func roughRadius(r logic.Rules) float32 {
	rr := r.Reach()
	// The beak base corners can stick out past the tip distance for wide beaks.
	corner := geom.Vec(r.UnitRadius/2, r.BeakWidth/2).Len()
	if corner > rr {
		rr = corner
	}
	if r.UnitRadius > rr {
		rr = r.UnitRadius
	}
	return rr
}

// Projectile is an in-flight shot. Heading never changes.
type Projectile struct {
	ID          uint32
	OwnerID     logic.UnitID
	OwnerTeam   logic.Team
	Heading     geom.Angle
	Position    geom.Point
	Exploded    bool
	CreatedTick uint64
}

// Element returns the shot's collidable body.
func (p *Projectile) Element(r logic.Rules) collision.Body {
	return collision.NewBody(collision.Circle{Center: p.Position, Radius: r.ShotRadius})
}

// Advance moves the shot one tick along its heading.
func (p *Projectile) Advance(r logic.Rules) {
	p.Position = p.Position.Add(p.Heading.Unit().Scale(r.ShotStep))
}

// Board is the arena rectangle with its four edges.
type Board struct {
	logic.BoardInfo
	edges [4]collision.Segment
}

// NewBoard builds the boundary segments for info.
func NewBoard(info logic.BoardInfo) Board {
	bl := geom.Pt(0, 0)
	br := geom.Pt(info.Width, 0)
	tr := geom.Pt(info.Width, info.Height)
	tl := geom.Pt(0, info.Height)
	return Board{
		BoardInfo: info,
		edges: [4]collision.Segment{
			{Start: bl, End: br},
			{Start: br, End: tr},
			{Start: tr, End: tl},
			{Start: tl, End: bl},
		},
	}
}

// Edges returns the boundary segments counter-clockwise from the bottom edge.
func (b Board) Edges() []collision.Segment {
	return b.edges[:]
}

// Collides reports whether an element anchored at ref touches the boundary
// or has left the board.
func (b Board) Collides(ref geom.Point, e collision.Element) bool {
	if !b.Contains(ref) {
		return true
	}
	for _, edge := range b.edges {
		if collision.ElementCollidesWith(e, edge) {
			return true
		}
	}
	return false
}
