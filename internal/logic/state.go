package logic

import "github.com/vovakirdan/chicken-war/internal/geom"

// SeenUnit is another unit as observed by a unit's view.
type SeenUnit struct {
	ID       UnitID
	Team     Team
	Position geom.Point
	Angle    geom.Angle
	Distance float32
}

// SeenShot is an in-flight projectile as observed by a unit's view.
type SeenShot struct {
	ID        uint32
	OwnerTeam Team
	Position  geom.Point
	Heading   geom.Angle
}

// View is the precomputed set of world objects visible to one unit,
// ordered by distance (nearest first).
type View struct {
	Units []SeenUnit
	Shots []SeenShot
}

// Enemies returns the seen units that belong to a team other than own.
func (v View) Enemies(own Team) []SeenUnit {
	out := make([]SeenUnit, 0, len(v.Units))
	for _, u := range v.Units {
		if u.Team != own {
			out = append(out, u)
		}
	}
	return out
}

// Nearest returns the closest seen unit of the given team.
func (v View) Nearest(team Team) (SeenUnit, bool) {
	for _, u := range v.Units {
		if u.Team == team {
			return u, true
		}
	}
	return SeenUnit{}, false
}

// UnitState is the read-only snapshot of one unit taken at the start of a
// tick. It is never mutated after it is handed to a logic.
type UnitState struct {
	ID       UnitID
	Team     Team
	Alive    bool
	Position geom.Point
	Angle    geom.Angle
	Kills    int

	// PreviousMove is the move resolved last tick, nil if there was none.
	PreviousMove    *MoveInfo
	PreviousOutcome MoveOutcome
	// Obstruction is the first unit that blocked the previous move.
	Obstruction UnitID

	View    View
	CanFire bool
}

// TeamState is everything one team's logic sees in one tick.
type TeamState struct {
	Tick  uint64
	Team  Team
	Board BoardInfo
	Rules Rules
	Units []UnitState
}

// Unit looks up one of the team's units by ID.
func (s *TeamState) Unit(id UnitID) (UnitState, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return UnitState{}, false
}

// Alive returns the team's living units in ID order.
func (s *TeamState) Alive() []UnitState {
	out := make([]UnitState, 0, len(s.Units))
	for _, u := range s.Units {
		if u.Alive {
			out = append(out, u)
		}
	}
	return out
}

// AliveCount returns the number of living units.
func (s *TeamState) AliveCount() int {
	n := 0
	for _, u := range s.Units {
		if u.Alive {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so the caller may hand it to another goroutine.
func (s *TeamState) Clone() *TeamState {
	if s == nil {
		return nil
	}
	c := *s
	c.Units = make([]UnitState, len(s.Units))
	for i, u := range s.Units {
		if u.PreviousMove != nil {
			m := *u.PreviousMove
			u.PreviousMove = &m
		}
		u.View = View{
			Units: append([]SeenUnit(nil), u.View.Units...),
			Shots: append([]SeenShot(nil), u.View.Shots...),
		}
		c.Units[i] = u
	}
	return &c
}
