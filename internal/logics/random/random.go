// Package random implements a logic that wanders aimlessly.
//
// Choices are drawn from a generator seeded with the tick and the unit ID,
// so the same snapshot always produces the same moves.
package random

import (
	"context"
	"math/rand"

	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/registry"
)

// Name is the registry name.
const Name = "random"

// Default tuning.
const (
	DefaultFireChance = 0.3
	// Units keep a heading for this many ticks before picking a new one.
	DefaultHoldTicks = 10
)

func init() {
	registry.Register(Name, func() logic.Logic { return New(0) })
}

// Logic moves units in random directions.
type Logic struct {
	seed       int64
	fireChance float64
	holdTicks  uint64
}

// New creates a random logic. seed varies the behavior between instances.
func New(seed int64) *Logic {
	return &Logic{
		seed:       seed,
		fireChance: DefaultFireChance,
		holdTicks:  DefaultHoldTicks,
	}
}

// Name returns "random".
func (*Logic) Name() string { return Name }

// Description returns a one-line summary.
func (*Logic) Description() string { return "wanders and fires at random" }

// Decide picks a heading per unit and changes it every few ticks or after
// bumping into something.
func (l *Logic) Decide(_ context.Context, state *logic.TeamState, result *logic.MoveResult) error {
	epoch := state.Tick / l.holdTicks
	for _, u := range state.Alive() {
		rng := rand.New(rand.NewSource(l.seed ^ int64(epoch)*7919 ^ int64(u.ID)*104729))

		heading := geom.NewAngle(rng.Float32()*360 - 180)
		if u.PreviousOutcome.Rejected() {
			// Head back to open ground.
			heading = geom.AngleTo(u.Position, state.Board.Center())
		}
		dir, err := logic.Towards(heading, 0.5+rng.Float32()*0.5)
		if err != nil {
			return err
		}

		turn, err := logic.NewTurn(rng.Float32()*2 - 1)
		if err != nil {
			return err
		}

		// A fresh generator per tick for the trigger, so firing is not
		// locked to the heading epoch.
		trigger := rand.New(rand.NewSource(l.seed ^ int64(state.Tick)*31 ^ int64(u.ID)))
		fire := logic.FireNone
		if u.CanFire && trigger.Float64() < l.fireChance {
			fire = logic.FireRegular
		}

		result.Set(u, logic.NewMove(dir, turn, fire))
	}
	return nil
}
