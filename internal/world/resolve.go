package world

import (
	"context"
	"fmt"

	"github.com/vovakirdan/chicken-war/internal/collision"
	"github.com/vovakirdan/chicken-war/internal/logic"
)

// Kill records one unit death caused by a shot.
type Kill struct {
	Victim logic.UnitID
	Killer logic.UnitID
	ShotID uint32
}

// Suicide reports whether the victim was hit by its own shot.
func (k Kill) Suicide() bool {
	return k.Victim == k.Killer
}

// TickReport summarizes what one call to Resolve did.
type TickReport struct {
	Tick     uint64 // tick that was resolved
	Moved    int
	Rejected int
	Spawned  int
	Exploded int
	Kills    []Kill
	Phase    Phase
	Winner   logic.Team
}

// Resolve applies one tick of moves. Steps run in a fixed order:
//
//  1. movement and rotation, unit by unit in ID order
//  2. shot spawning
//  3. shot advance, boundary explosions
//  4. shot versus shot
//  5. shot versus unit
//  6. cleanup of exploded shots
//  7. outcome check
//
// Only step 1 observes ctx; a cancelled context abandons the tick with
// ErrInterrupted and leaves the tick counter untouched. Moves are validated
// before anything changes.
func (w *World) Resolve(ctx context.Context, moves map[logic.UnitID]logic.MoveInfo) (TickReport, error) {
	rep := TickReport{Tick: w.tick, Phase: w.phase, Winner: w.winner}
	if w.phase == PhaseEnded {
		return rep, nil
	}
	for id, m := range moves {
		if err := m.Validate(); err != nil {
			return rep, fmt.Errorf("world: unit %d: %w", id, err)
		}
	}

	if err := w.moveUnits(ctx, moves, &rep); err != nil {
		return rep, err
	}
	w.spawnShots(moves, &rep)
	w.advanceShots(&rep)
	w.collideShots(&rep)
	w.hitUnits(&rep)
	w.cleanup()
	w.checkOutcome()

	w.tick++
	rep.Phase = w.phase
	rep.Winner = w.winner
	return rep, nil
}

func (w *World) moveUnits(ctx context.Context, moves map[logic.UnitID]logic.MoveInfo, rep *TickReport) error {
	r := w.cfg.Rules
	for _, u := range w.units {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("world: tick %d: %w", w.tick, ErrInterrupted)
		}
		if !u.Alive {
			continue
		}
		m, ok := moves[u.ID]
		if !ok {
			u.LastMove = nil
			u.LastOutcome = logic.OutcomeNone
			u.Obstruction = logic.NoUnit
			continue
		}
		mv := m
		u.LastMove = &mv
		u.Obstruction = logic.NoUnit

		pos := u.Position.Add(m.Direction.Displacement(r.UnitStep))
		angle := u.Angle.AddDegrees(m.Turn.Degrees(r.TurnStep))
		if pos == u.Position && angle.Equal(u.Angle) {
			u.LastOutcome = logic.OutcomeAccepted
			continue
		}

		cand := UnitElement(pos, angle, r)
		if w.board.Collides(pos, cand) {
			u.LastOutcome = logic.OutcomeBoardCollision
			rep.Rejected++
			continue
		}
		if blocker := w.firstObstruction(u.ID, cand); blocker != logic.NoUnit {
			u.LastOutcome = logic.OutcomeUnitCollision
			u.Obstruction = blocker
			rep.Rejected++
			continue
		}

		u.Position = pos
		u.Angle = angle
		u.LastOutcome = logic.OutcomeAccepted
		rep.Moved++
	}
	return nil
}

// firstObstruction returns the lowest-ID living unit other than self whose
// current body collides with e.
func (w *World) firstObstruction(self logic.UnitID, e collision.Element) logic.UnitID {
	for _, o := range w.units {
		if o.ID == self || !o.Alive {
			continue
		}
		if collision.ElementsCollide(e, o.Element(w.cfg.Rules)) {
			return o.ID
		}
	}
	return logic.NoUnit
}

func (w *World) spawnShots(moves map[logic.UnitID]logic.MoveInfo, rep *TickReport) {
	r := w.cfg.Rules
	for _, u := range w.units {
		m, ok := moves[u.ID]
		if !ok || m.Fire != logic.FireRegular || !w.mayFire(u) {
			continue
		}
		w.nextShotID++
		dir := u.Angle.Unit()
		w.shots = append(w.shots, &Projectile{
			ID:          w.nextShotID,
			OwnerID:     u.ID,
			OwnerTeam:   u.Team,
			Heading:     u.Angle,
			Position:    u.BeakTip(r).Add(dir.Scale(r.ShotRadius + shotMargin)),
			CreatedTick: w.tick,
		})
		u.LastShotTick = int64(w.tick)
		rep.Spawned++
	}
}

func (w *World) advanceShots(rep *TickReport) {
	for _, p := range w.shots {
		p.Advance(w.cfg.Rules)
		if w.board.Collides(p.Position, p.Element(w.cfg.Rules)) {
			p.Exploded = true
			rep.Exploded++
		}
	}
}

// collideShots tests every pair of shots active at the start of the step,
// so one shot may take out several others.
func (w *World) collideShots(rep *TickReport) {
	active := make([]*Projectile, 0, len(w.shots))
	for _, p := range w.shots {
		if !p.Exploded {
			active = append(active, p)
		}
	}
	hit := make([]bool, len(active))
	for i := range active {
		ei := active[i].Element(w.cfg.Rules)
		for j := i + 1; j < len(active); j++ {
			if collision.ElementsCollide(ei, active[j].Element(w.cfg.Rules)) {
				hit[i], hit[j] = true, true
			}
		}
	}
	for i, p := range active {
		if hit[i] {
			p.Exploded = true
			rep.Exploded++
		}
	}
}

// hitUnits kills the first living unit, in ID order, that each active shot
// touches. Only kills of enemy units count for the owner.
func (w *World) hitUnits(rep *TickReport) {
	r := w.cfg.Rules
	for _, p := range w.shots {
		if p.Exploded {
			continue
		}
		pe := p.Element(r)
		for _, u := range w.units {
			if !u.Alive || !collision.ElementsCollide(pe, u.Element(r)) {
				continue
			}
			p.Exploded = true
			rep.Exploded++
			u.Alive = false
			u.KilledBy = p.OwnerID
			if u.Team != p.OwnerTeam {
				if owner, ok := w.Unit(p.OwnerID); ok {
					owner.Kills++
				}
			}
			rep.Kills = append(rep.Kills, Kill{Victim: u.ID, Killer: p.OwnerID, ShotID: p.ID})
			break
		}
	}
}

func (w *World) cleanup() {
	kept := w.shots[:0]
	for _, p := range w.shots {
		if !p.Exploded {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(w.shots); i++ {
		w.shots[i] = nil
	}
	w.shots = kept
}

func (w *World) checkOutcome() {
	teams := w.livingTeams()
	if len(teams) > 1 {
		return
	}
	w.phase = PhaseFinalizing
	if len(w.shots) > 0 {
		return
	}
	w.phase = PhaseEnded
	if len(teams) == 1 {
		w.winner = teams[0]
	} else {
		w.winner = logic.NoTeam
	}
}
