package logic

import "context"

// Logic is a team's decision algorithm.
//
// Decide is called at most once per tick from the team's own goroutine.
// It must treat state as read-only and must not keep references to it
// after returning. A non-nil error (or a panic) eliminates the team.
// The context is cancelled when the match stops.
type Logic interface {
	// Name returns the identifier used in logs and results.
	Name() string

	// Decide fills result with moves for some or all living units.
	Decide(ctx context.Context, state *TeamState, result *MoveResult) error
}

// DecideFunc is the signature of Logic.Decide.
type DecideFunc func(ctx context.Context, state *TeamState, result *MoveResult) error

type funcLogic struct {
	name string
	fn   DecideFunc
}

// Func wraps a plain function as a Logic.
func Func(name string, fn DecideFunc) Logic {
	return funcLogic{name: name, fn: fn}
}

func (f funcLogic) Name() string { return f.name }

func (f funcLogic) Decide(ctx context.Context, state *TeamState, result *MoveResult) error {
	return f.fn(ctx, state, result)
}
