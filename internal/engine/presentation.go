package engine

import (
	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/world"
)

// UnitView is a living unit as shown to a renderer.
type UnitView struct {
	ID       logic.UnitID
	Team     logic.Team
	Position geom.Point
	Angle    geom.Angle
	Kills    int
}

// ShotView is an active projectile as shown to a renderer.
type ShotView struct {
	ID        uint32
	OwnerID   logic.UnitID
	OwnerTeam logic.Team
	Position  geom.Point
	Heading   geom.Angle
}

// Presentation is an immutable snapshot for renderers. A new value is
// published after every tick; readers must not modify it.
type Presentation struct {
	MatchID    string
	Tick       uint64
	State      State
	Phase      world.Phase
	Winner     logic.Team
	Reason     Reason
	Board      logic.BoardInfo
	Rules      logic.Rules
	Units      []UnitView
	Shots      []ShotView
	Logics     [logic.TeamCount]string
	Kills      [logic.TeamCount]int
	Alive      [logic.TeamCount]int
	TeamErrors [logic.TeamCount]string
}

// publish stores a fresh snapshot of the world. Called only by the
// goroutine that owns the world.
func (e *Engine) publish() {
	e.presentation.Store(e.snapshot())
}

// snapshot builds a presentation of the world and the current status.
func (e *Engine) snapshot() *Presentation {
	w := e.world
	p := &Presentation{
		Tick:   w.Tick(),
		Phase:  w.Phase(),
		Winner: w.Winner(),
		Board:  w.Config().Board,
		Rules:  w.Rules(),
		Kills:  w.Kills(),
		Alive:  w.AliveCounts(),
	}
	for t, l := range e.logics {
		p.Logics[t] = l.Name()
	}

	e.mu.Lock()
	p.MatchID = e.matchID
	p.State = e.status.State
	p.Reason = e.status.Reason
	for t, err := range e.teamErrs {
		if err != nil {
			p.TeamErrors[t] = err.Error()
		}
	}
	e.mu.Unlock()

	for _, u := range w.Units() {
		if !u.Alive {
			continue
		}
		p.Units = append(p.Units, UnitView{
			ID:       u.ID,
			Team:     u.Team,
			Position: u.Position,
			Angle:    u.Angle,
			Kills:    u.Kills,
		})
	}
	for _, s := range w.Shots() {
		p.Shots = append(p.Shots, ShotView{
			ID:        s.ID,
			OwnerID:   s.OwnerID,
			OwnerTeam: s.OwnerTeam,
			Position:  s.Position,
			Heading:   s.Heading,
		})
	}
	return p
}
