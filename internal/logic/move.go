package logic

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/vovakirdan/chicken-war/internal/geom"
)

// Direction is a unit heading vector paired with a speed in [0, 1].
// The zero value is NoDirection.
type Direction struct {
	unit  geom.Vector
	speed float32
}

// NoDirection means "do not move".
var NoDirection = Direction{}

// NewDirection builds a direction from an arbitrary vector and a speed.
// A zero speed yields NoDirection. A zero vector with positive speed fails.
func NewDirection(dx, dy, speed float32) (Direction, error) {
	if math32.IsNaN(speed) || speed < 0 || speed > 1 {
		return NoDirection, fmt.Errorf("%w: speed %v outside [0,1]", ErrInvalidMove, speed)
	}
	if speed == 0 {
		return NoDirection, nil
	}
	v := geom.Vec(dx, dy)
	if v.IsZero() || math32.IsNaN(dx) || math32.IsNaN(dy) {
		return NoDirection, fmt.Errorf("%w: direction vector is zero", ErrInvalidMove)
	}
	return Direction{unit: v.Normalize(), speed: speed}, nil
}

// Towards returns a direction pointing along angle a with the given speed.
func Towards(a geom.Angle, speed float32) (Direction, error) {
	u := a.Unit()
	return NewDirection(u.X, u.Y, speed)
}

// IsNone reports whether the direction requests no movement.
func (d Direction) IsNone() bool {
	return d.speed == 0
}

// Unit returns the normalized heading. It is the zero vector for NoDirection.
func (d Direction) Unit() geom.Vector {
	return d.unit
}

// Speed returns the speed factor in [0, 1].
func (d Direction) Speed() float32 {
	return d.speed
}

// Displacement returns the movement for one tick given the unit step.
func (d Direction) Displacement(step float32) geom.Vector {
	if d.IsNone() {
		return geom.Vector{}
	}
	return d.unit.Scale(d.speed * step)
}

func (d Direction) validate() error {
	if math32.IsNaN(d.speed) || d.speed < 0 || d.speed > 1 {
		return fmt.Errorf("%w: speed %v outside [0,1]", ErrInvalidMove, d.speed)
	}
	if d.speed > 0 && !geom.NearlyEqual(d.unit.Len(), 1) {
		return fmt.Errorf("%w: heading is not normalized", ErrInvalidMove)
	}
	return nil
}

// Turn is the beak rotation rate in [-1, 1]. Negative turns clockwise.
type Turn float32

// NoTurn keeps the current facing.
const NoTurn Turn = 0

// NewTurn validates a rotation rate.
func NewTurn(t float32) (Turn, error) {
	if math32.IsNaN(t) || t < -1 || t > 1 {
		return NoTurn, fmt.Errorf("%w: turn %v outside [-1,1]", ErrInvalidMove, t)
	}
	return Turn(t), nil
}

// TurnTowards returns the rate that rotates from facing towards target as far
// as one tick allows without overshooting.
func TurnTowards(facing, target geom.Angle, turnStep float32) Turn {
	diff := target.Sub(facing).Degrees()
	if turnStep <= 0 {
		return NoTurn
	}
	return Turn(geom.Clamp(diff/turnStep, -1, 1))
}

// Degrees returns the rotation for one tick given the turn step.
func (t Turn) Degrees(step float32) float32 {
	return float32(t) * step
}

// Fire selects the firing mode of a move.
type Fire uint8

const (
	FireNone Fire = iota
	FireRegular
)

// String returns the fire mode name.
func (f Fire) String() string {
	switch f {
	case FireNone:
		return "none"
	case FireRegular:
		return "regular"
	default:
		return fmt.Sprintf("fire(%d)", uint8(f))
	}
}

// MoveInfo is the move chosen for one unit in one tick.
type MoveInfo struct {
	Direction Direction
	Turn      Turn
	Fire      Fire
}

// NewMove assembles a move. Use Validate to check values built by hand.
func NewMove(dir Direction, turn Turn, fire Fire) MoveInfo {
	return MoveInfo{Direction: dir, Turn: turn, Fire: fire}
}

// Hold is a move that does nothing.
func Hold() MoveInfo {
	return MoveInfo{}
}

// Validate reports an ErrInvalidMove if any component is out of range.
func (m MoveInfo) Validate() error {
	if err := m.Direction.validate(); err != nil {
		return err
	}
	t := float32(m.Turn)
	if math32.IsNaN(t) || t < -1 || t > 1 {
		return fmt.Errorf("%w: turn %v outside [-1,1]", ErrInvalidMove, t)
	}
	if m.Fire != FireNone && m.Fire != FireRegular {
		return fmt.Errorf("%w: unknown fire mode %d", ErrInvalidMove, m.Fire)
	}
	return nil
}

// String formats the move for logs.
func (m MoveInfo) String() string {
	if m.Direction.IsNone() {
		return fmt.Sprintf("stay turn=%.2f fire=%s", float32(m.Turn), m.Fire)
	}
	u := m.Direction.Unit()
	return fmt.Sprintf("dir=(%.2f,%.2f)x%.2f turn=%.2f fire=%s",
		u.X, u.Y, m.Direction.Speed(), float32(m.Turn), m.Fire)
}

// MoveOutcome tells a unit what happened to its previous move.
type MoveOutcome uint8

const (
	// OutcomeNone means no move was submitted or resolved yet.
	OutcomeNone MoveOutcome = iota
	OutcomeAccepted
	// OutcomeBoardCollision: the new pose would touch the board boundary.
	OutcomeBoardCollision
	// OutcomeUnitCollision: the new pose would overlap another living unit.
	OutcomeUnitCollision
)

// Rejected reports whether the move was refused.
func (o MoveOutcome) Rejected() bool {
	return o == OutcomeBoardCollision || o == OutcomeUnitCollision
}

// String returns the outcome name.
func (o MoveOutcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeBoardCollision:
		return "board collision"
	case OutcomeUnitCollision:
		return "unit collision"
	default:
		return "unknown"
	}
}
