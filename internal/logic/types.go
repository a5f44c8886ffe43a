// Package logic defines the contract between the arena engine and the
// decision algorithms that drive each team.
//
// A logic never sees engine-owned objects. Every tick it receives a
// read-only TeamState copy and fills a MoveResult that the engine collects
// after the polling window closes.
package logic

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/chicken-war/internal/geom"
)

// TeamCount is the number of teams in a match. It is fixed.
const TeamCount = 2

// Team identifies one side of the arena.
type Team int

const (
	// NoTeam marks the absence of a team (draws, unknown killers).
	NoTeam Team = -1
	TeamA  Team = 0
	TeamB  Team = 1
)

// Valid reports whether t is one of the two playing teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Opponent returns the other playing team.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return NoTeam
	}
}

// String returns a short display name.
func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "none"
	}
}

// UnitID is an opaque, stable unit identifier. Zero means "no unit".
type UnitID uint32

// NoUnit is the zero UnitID.
const NoUnit UnitID = 0

// ErrInvalidMove is returned for moves whose components are out of range.
var ErrInvalidMove = errors.New("logic: invalid move")

// BoardInfo describes the arena rectangle. The origin is the bottom-left
// corner and y grows upwards.
type BoardInfo struct {
	Width  float32
	Height float32
}

// Contains reports whether p lies inside the board, edges included.
func (b BoardInfo) Contains(p geom.Point) bool {
	return geom.LessOrEqual(0, p.X) && geom.LessOrEqual(p.X, b.Width) &&
		geom.LessOrEqual(0, p.Y) && geom.LessOrEqual(p.Y, b.Height)
}

// Center returns the middle of the board.
func (b BoardInfo) Center() geom.Point {
	return geom.Pt(b.Width/2, b.Height/2)
}

// String returns "WxH".
func (b BoardInfo) String() string {
	return fmt.Sprintf("%gx%g", b.Width, b.Height)
}

// Rules are the fixed physical constants of a match. Movement and rotation
// use per-tick steps, never elapsed wall-clock time.
type Rules struct {
	UnitRadius    float32 // body circle radius
	BeakLength    float32 // distance from body edge to beak tip
	BeakWidth     float32 // beak base width
	UnitStep      float32 // distance moved per tick at full speed
	TurnStep      float32 // degrees turned per tick at full turn rate
	ShotRadius    float32
	ShotStep      float32 // distance a shot travels per tick
	CooldownTicks int     // ticks between two shots of one unit
	MinSeparation float32 // minimum distance between unit centers at placement
	FieldOfView   float32 // full view cone in degrees, 360 sees everything
	ViewRange     float32 // zero means unlimited
}

// Reach returns the distance from a unit's center to its beak tip.
func (r Rules) Reach() float32 {
	return r.UnitRadius + r.BeakLength
}
