// Package spinner implements a logic that turns in place and fires
// whenever its cooldown allows.
package spinner

import (
	"context"

	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/registry"
)

// Name is the registry name.
const Name = "spinner"

func init() {
	registry.Register(Name, func() logic.Logic { return New(1) })
}

// Logic spins every unit at a fixed rate.
type Logic struct {
	rate logic.Turn
}

// New creates a spinner turning at rate, clamped to [-1, 1].
func New(rate float32) *Logic {
	t, err := logic.NewTurn(rate)
	if err != nil {
		t = 1
		if rate < 0 {
			t = -1
		}
	}
	return &Logic{rate: t}
}

// Name returns "spinner".
func (*Logic) Name() string { return Name }

// Description returns a one-line summary.
func (*Logic) Description() string { return "turns in place and fires on cooldown" }

// Decide turns every living unit and fires when allowed.
func (l *Logic) Decide(_ context.Context, state *logic.TeamState, result *logic.MoveResult) error {
	for _, u := range state.Alive() {
		fire := logic.FireNone
		if u.CanFire {
			fire = logic.FireRegular
		}
		result.Set(u, logic.NewMove(logic.NoDirection, l.rate, fire))
	}
	return nil
}
