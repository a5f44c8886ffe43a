package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/chewxy/math32"

	"github.com/vovakirdan/chicken-war/internal/collision"
	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
)

var (
	// ErrInvalidConfig is returned for unusable board, team or rule values.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidPlacement is returned when a starting layout overlaps or
	// leaves the board.
	ErrInvalidPlacement = errors.New("invalid placement")
	// ErrInterrupted is returned when resolution is abandoned by a stop request.
	ErrInterrupted = errors.New("resolution interrupted")
)

const (
	// placementAttempts is the number of random positions tried per unit.
	placementAttempts = 2000
	// placementSlack keeps randomly placed units strictly off the boundary.
	placementSlack float32 = 10 * geom.Epsilon
)

// Phase is the game outcome state, orthogonal to whether the engine runs.
type Phase int

const (
	// PhaseActive: both teams have living units.
	PhaseActive Phase = iota
	// PhaseFinalizing: at most one team is alive but shots are still flying.
	PhaseFinalizing
	// PhaseEnded: the outcome is decided.
	PhaseEnded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Config is the validated in-memory description of a match.
type Config struct {
	Board     logic.BoardInfo
	Rules     logic.Rules
	TeamSizes [logic.TeamCount]int
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if !(c.Board.Width > 0) || !(c.Board.Height > 0) {
		return fmt.Errorf("world: board %s must be positive: %w", c.Board, ErrInvalidConfig)
	}
	for t, n := range c.TeamSizes {
		if n <= 0 {
			return fmt.Errorf("world: team %s has %d units: %w", logic.Team(t), n, ErrInvalidConfig)
		}
	}
	r := c.Rules
	switch {
	case !(r.UnitRadius > 0):
		return fmt.Errorf("world: unit radius must be positive: %w", ErrInvalidConfig)
	case !(r.BeakLength > 0) || !(r.BeakWidth > 0):
		return fmt.Errorf("world: beak size must be positive: %w", ErrInvalidConfig)
	case !(r.ShotRadius > 0):
		return fmt.Errorf("world: shot radius must be positive: %w", ErrInvalidConfig)
	case r.UnitStep < 0 || r.TurnStep < 0:
		return fmt.Errorf("world: steps must not be negative: %w", ErrInvalidConfig)
	case !(r.ShotStep > r.UnitStep):
		return fmt.Errorf("world: shot step must exceed unit step: %w", ErrInvalidConfig)
	case r.CooldownTicks < 0:
		return fmt.Errorf("world: cooldown must not be negative: %w", ErrInvalidConfig)
	case r.MinSeparation < 2*roughRadius(r):
		return fmt.Errorf("world: min separation %g below unit diameter %g: %w",
			r.MinSeparation, 2*roughRadius(r), ErrInvalidConfig)
	}
	// Each team needs its half of the board to hold a unit clear of the edges.
	margin := 2 * (roughRadius(r) + placementSlack)
	if c.Board.Width/2 <= margin || c.Board.Height <= margin {
		return fmt.Errorf("world: board %s too small for units: %w", c.Board, ErrInvalidConfig)
	}
	return nil
}

// Placement is a starting pose for one unit.
type Placement struct {
	ID       logic.UnitID
	Position geom.Point
	Angle    geom.Angle
}

// World is the authoritative arena state.
type World struct {
	cfg   Config
	board Board
	units []*Unit // index i holds ID i+1
	shots []*Projectile

	nextShotID uint32
	tick       uint64
	phase      Phase
	winner     logic.Team
}

// New creates a world with all units alive at the origin. Call Place or
// PlaceRandom before resolving.
func New(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:    cfg,
		board:  NewBoard(cfg.Board),
		winner: logic.NoTeam,
	}
	id := logic.UnitID(1)
	for t, n := range cfg.TeamSizes {
		for i := 0; i < n; i++ {
			w.units = append(w.units, &Unit{
				ID:           id,
				Team:         logic.Team(t),
				Alive:        true,
				LastShotTick: NeverFired,
			})
			id++
		}
	}
	return w, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config { return w.cfg }

// Board returns the arena boundary.
func (w *World) Board() Board { return w.board }

// Rules returns the physical constants.
func (w *World) Rules() logic.Rules { return w.cfg.Rules }

// Tick returns the number of resolved ticks.
func (w *World) Tick() uint64 { return w.tick }

// Phase returns the game outcome state.
func (w *World) Phase() Phase { return w.phase }

// Winner returns the winning team once the phase is PhaseEnded.
// NoTeam means a draw or an undecided game.
func (w *World) Winner() logic.Team { return w.winner }

// Unit returns the unit with the given ID.
func (w *World) Unit(id logic.UnitID) (*Unit, bool) {
	if id == logic.NoUnit || int(id) > len(w.units) {
		return nil, false
	}
	return w.units[id-1], true
}

// Units returns copies of all units in ID order, dead ones included.
func (w *World) Units() []Unit {
	out := make([]Unit, len(w.units))
	for i, u := range w.units {
		out[i] = *u
	}
	return out
}

// Shots returns copies of the active projectiles.
func (w *World) Shots() []Projectile {
	out := make([]Projectile, len(w.shots))
	for i, p := range w.shots {
		out[i] = *p
	}
	return out
}

// Kills returns the summed kill counters of each team.
func (w *World) Kills() [logic.TeamCount]int {
	var k [logic.TeamCount]int
	for _, u := range w.units {
		k[u.Team] += u.Kills
	}
	return k
}

// AliveCounts returns the number of living units of each team.
func (w *World) AliveCounts() [logic.TeamCount]int {
	var n [logic.TeamCount]int
	for _, u := range w.units {
		if u.Alive {
			n[u.Team]++
		}
	}
	return n
}

// KillTeam marks every unit of team dead with no killer. Used when the
// team's logic fails.
func (w *World) KillTeam(team logic.Team) int {
	n := 0
	for _, u := range w.units {
		if u.Team == team && u.Alive {
			u.Alive = false
			u.KilledBy = logic.NoUnit
			n++
		}
	}
	return n
}

// Place applies a starting layout. Units missing from ps keep their pose.
// The resulting layout is checked like a random one.
func (w *World) Place(ps []Placement) error {
	for _, p := range ps {
		u, ok := w.Unit(p.ID)
		if !ok {
			return fmt.Errorf("world: unknown unit %d: %w", p.ID, ErrInvalidPlacement)
		}
		u.Position = p.Position
		u.Angle = p.Angle
	}
	return w.CheckLayout()
}

// PlaceRandom scatters units over their team's half of the board. Team A
// takes the left half facing right, team B the right half facing left.
func (w *World) PlaceRandom(rng *rand.Rand) error {
	r := w.cfg.Rules
	margin := roughRadius(r) + placementSlack
	halfW := w.cfg.Board.Width / 2

	placed := make([]geom.Point, 0, len(w.units))
	for _, u := range w.units {
		x0 := margin
		facing := geom.NewAngle(0)
		if u.Team == logic.TeamB {
			x0 = halfW + margin
			facing = geom.NewAngle(180)
		}
		spanX := halfW - 2*margin
		spanY := w.cfg.Board.Height - 2*margin

		ok := false
		for attempt := 0; attempt < placementAttempts; attempt++ {
			p := geom.Pt(x0+rng.Float32()*spanX, margin+rng.Float32()*spanY)
			if tooClose(p, placed, r.MinSeparation) {
				continue
			}
			u.Position = p
			u.Angle = facing
			placed = append(placed, p)
			ok = true
			break
		}
		if !ok {
			return fmt.Errorf("world: cannot place unit %d, board too crowded: %w", u.ID, ErrInvalidConfig)
		}
	}
	return w.CheckLayout()
}

func tooClose(p geom.Point, others []geom.Point, sep float32) bool {
	for _, o := range others {
		if p.DistanceSq(o) < sep*sep {
			return true
		}
	}
	return false
}

// CheckLayout verifies that every living unit is clear of the boundary,
// of every other unit, and at least MinSeparation from other units.
func (w *World) CheckLayout() error {
	r := w.cfg.Rules
	for i, u := range w.units {
		if !u.Alive {
			continue
		}
		e := u.Element(r)
		if w.board.Collides(u.Position, e) {
			return fmt.Errorf("world: unit %d at %v touches the boundary: %w", u.ID, u.Position, ErrInvalidPlacement)
		}
		for _, o := range w.units[i+1:] {
			if !o.Alive {
				continue
			}
			// A small tolerance lets hooks place units exactly MinSeparation apart.
			if u.Position.Distance(o.Position)+geom.Epsilon < r.MinSeparation {
				return fmt.Errorf("world: units %d and %d closer than %g: %w", u.ID, o.ID, r.MinSeparation, ErrInvalidPlacement)
			}
			if collision.ElementsCollide(e, o.Element(r)) {
				return fmt.Errorf("world: units %d and %d overlap: %w", u.ID, o.ID, ErrInvalidPlacement)
			}
		}
	}
	return nil
}

// livingTeams returns the teams that still have a living unit.
func (w *World) livingTeams() []logic.Team {
	counts := w.AliveCounts()
	var teams []logic.Team
	for t, n := range counts {
		if n > 0 {
			teams = append(teams, logic.Team(t))
		}
	}
	return teams
}

// mayFire applies the cooldown and the finalizing rule: once only one team
// is alive, it may fire only while an enemy shot is still in flight.
func (w *World) mayFire(u *Unit) bool {
	if !u.Alive || !u.OffCooldown(w.tick, w.cfg.Rules) {
		return false
	}
	teams := w.livingTeams()
	if len(teams) > 1 {
		return true
	}
	for _, p := range w.shots {
		if !p.Exploded && p.OwnerTeam != u.Team {
			return true
		}
	}
	return false
}

// TeamState builds the read-only snapshot handed to team's logic.
func (w *World) TeamState(team logic.Team) *logic.TeamState {
	s := &logic.TeamState{
		Tick:  w.tick,
		Team:  team,
		Board: w.cfg.Board,
		Rules: w.cfg.Rules,
	}
	for _, u := range w.units {
		if u.Team != team {
			continue
		}
		st := logic.UnitState{
			ID:              u.ID,
			Team:            u.Team,
			Alive:           u.Alive,
			Position:        u.Position,
			Angle:           u.Angle,
			Kills:           u.Kills,
			PreviousOutcome: u.LastOutcome,
			Obstruction:     u.Obstruction,
		}
		if u.LastMove != nil {
			m := *u.LastMove
			st.PreviousMove = &m
		}
		if u.Alive {
			st.View = w.view(u)
			st.CanFire = w.mayFire(u)
		}
		s.Units = append(s.Units, st)
	}
	return s
}

// view collects the living units and shots u can see, nearest first.
func (w *World) view(u *Unit) logic.View {
	var v logic.View
	for _, o := range w.units {
		if o.ID == u.ID || !o.Alive || !w.sees(u, o.Position) {
			continue
		}
		v.Units = append(v.Units, logic.SeenUnit{
			ID:       o.ID,
			Team:     o.Team,
			Position: o.Position,
			Angle:    o.Angle,
			Distance: u.Position.Distance(o.Position),
		})
	}
	for _, p := range w.shots {
		if p.Exploded || !w.sees(u, p.Position) {
			continue
		}
		v.Shots = append(v.Shots, logic.SeenShot{
			ID:        p.ID,
			OwnerTeam: p.OwnerTeam,
			Position:  p.Position,
			Heading:   p.Heading,
		})
	}
	sort.SliceStable(v.Units, func(i, j int) bool {
		return v.Units[i].Distance < v.Units[j].Distance
	})
	sort.SliceStable(v.Shots, func(i, j int) bool {
		return u.Position.DistanceSq(v.Shots[i].Position) < u.Position.DistanceSq(v.Shots[j].Position)
	})
	return v
}

func (w *World) sees(u *Unit, p geom.Point) bool {
	r := w.cfg.Rules
	if r.ViewRange > 0 && u.Position.DistanceSq(p) > r.ViewRange*r.ViewRange {
		return false
	}
	if r.FieldOfView <= 0 || r.FieldOfView >= 360 {
		return true
	}
	off := geom.AngleTo(u.Position, p).Sub(u.Angle).Degrees()
	return math32.Abs(off) <= r.FieldOfView/2
}
