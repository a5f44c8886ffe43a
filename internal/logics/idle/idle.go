// Package idle implements a logic whose units never move or fire.
// It is the baseline opponent for tests and benchmarks.
package idle

import (
	"context"

	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/registry"
)

// Name is the registry name.
const Name = "idle"

func init() {
	registry.Register(Name, func() logic.Logic { return New() })
}

// Logic holds every unit in place.
type Logic struct{}

// New creates an idle logic.
func New() *Logic { return &Logic{} }

// Name returns "idle".
func (*Logic) Name() string { return Name }

// Description returns a one-line summary.
func (*Logic) Description() string { return "stands still and never fires" }

// Decide submits a hold move for every living unit.
func (*Logic) Decide(_ context.Context, state *logic.TeamState, result *logic.MoveResult) error {
	for _, u := range state.Alive() {
		result.Set(u, logic.Hold())
	}
	return nil
}
