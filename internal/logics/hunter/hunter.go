// Package hunter implements a logic that chases the nearest visible enemy
// and fires once its beak is lined up.
package hunter

import (
	"context"

	"github.com/chewxy/math32"

	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/registry"
)

// Name is the registry name.
const Name = "hunter"

// Default tuning, in multiples of the unit reach.
const (
	DefaultPreferredRange = 6
	// Minimum aim tolerance in degrees for distant targets.
	DefaultMinTolerance = 2
)

func init() {
	registry.Register(Name, func() logic.Logic { return New() })
}

// Logic hunts the nearest enemy of each unit.
type Logic struct {
	preferredRange float32
	minTolerance   float32
}

// New creates a hunter with default tuning.
func New() *Logic {
	return &Logic{
		preferredRange: DefaultPreferredRange,
		minTolerance:   DefaultMinTolerance,
	}
}

// Name returns "hunter".
func (*Logic) Name() string { return Name }

// Description returns a one-line summary.
func (*Logic) Description() string { return "chases the nearest enemy and fires when aligned" }

// Decide steers each living unit.
func (l *Logic) Decide(ctx context.Context, state *logic.TeamState, result *logic.MoveResult) error {
	for _, u := range state.Alive() {
		if err := ctx.Err(); err != nil {
			return err
		}
		move, err := l.steer(u, state)
		if err != nil {
			return err
		}
		result.Set(u, move)
	}
	return nil
}

func (l *Logic) steer(u logic.UnitState, state *logic.TeamState) (logic.MoveInfo, error) {
	rules := state.Rules
	enemy, ok := u.View.Nearest(u.Team.Opponent())
	if !ok {
		// Nothing in sight: scan.
		return logic.NewMove(logic.NoDirection, 1, logic.FireNone), nil
	}

	bearing := geom.AngleTo(u.Position, enemy.Position)
	turn := logic.TurnTowards(u.Angle, bearing, rules.TurnStep)

	dir := logic.NoDirection
	if enemy.Distance > l.preferredRange*rules.Reach() {
		heading := bearing
		if u.PreviousOutcome == logic.OutcomeUnitCollision {
			// Sidestep whatever blocked us last tick.
			heading = bearing.AddDegrees(90)
		}
		d, err := logic.Towards(heading, 1)
		if err != nil {
			return logic.MoveInfo{}, err
		}
		dir = d
	}

	fire := logic.FireNone
	if u.CanFire && l.aligned(u, enemy, rules) && !friendlyInLine(u, enemy, rules) {
		fire = logic.FireRegular
	}
	return logic.NewMove(dir, turn, fire), nil
}

// aligned reports whether a shot fired now would pass within the target's
// body radius.
func (l *Logic) aligned(u logic.UnitState, target logic.SeenUnit, rules logic.Rules) bool {
	off := math32.Abs(geom.AngleTo(u.Position, target.Position).Sub(u.Angle).Degrees())
	return off <= tolerance(target.Distance, rules.UnitRadius, l.minTolerance)
}

// friendlyInLine reports whether a teammate closer than the target sits in
// the line of fire.
func friendlyInLine(u logic.UnitState, target logic.SeenUnit, rules logic.Rules) bool {
	for _, f := range u.View.Units {
		if f.Team != u.Team || f.Distance >= target.Distance {
			continue
		}
		off := math32.Abs(geom.AngleTo(u.Position, f.Position).Sub(u.Angle).Degrees())
		if off <= tolerance(f.Distance, rules.UnitRadius+rules.ShotRadius, 0) {
			return true
		}
	}
	return false
}

// tolerance is the angular half-width in degrees of a disc of radius r seen
// from distance d, but never below minDeg.
func tolerance(d, r, minDeg float32) float32 {
	if d <= r {
		return 180
	}
	deg := math32.Asin(r/d) * 180 / math32.Pi
	if deg < minDeg {
		return minDeg
	}
	return deg
}
