package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chicken-war/internal/logic"
)

// Executor runs one team's logic on its own goroutine.
//
// The engine hands it a fresh TeamState through a one-slot signal channel
// and later collects whatever moves the logic published last. A state that
// the logic has not picked up yet is replaced by a newer one, so a slow
// logic always works on the most recent tick it can reach.
type Executor struct {
	team  logic.Team
	logic logic.Logic
	log   *log.Logger

	signal chan *logic.TeamState

	mu        sync.Mutex
	moves     map[logic.UnitID]logic.MoveInfo
	movesTick uint64
	decisions uint64
	err       error

	done chan struct{}
}

func newExecutor(team logic.Team, l logic.Logic, logger *log.Logger) *Executor {
	return &Executor{
		team:   team,
		logic:  l,
		log:    logger.With("team", team.String(), "logic", l.Name()),
		signal: make(chan *logic.TeamState, 1),
		done:   make(chan struct{}),
	}
}

// Team returns the team the executor decides for.
func (x *Executor) Team() logic.Team {
	return x.team
}

// Err returns the error that eliminated the logic, if any.
func (x *Executor) Err() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.err
}

// Decisions returns the number of completed Decide calls.
func (x *Executor) Decisions() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.decisions
}

// Done is closed when the executor goroutine has exited.
func (x *Executor) Done() <-chan struct{} {
	return x.done
}

// raise hands state to the logic, replacing a state it has not taken yet.
// Only the engine goroutine calls it, so the retry always finds room.
func (x *Executor) raise(state *logic.TeamState) {
	select {
	case x.signal <- state:
		return
	default:
	}
	select {
	case <-x.signal:
	default:
	}
	select {
	case x.signal <- state:
	default:
	}
}

// lower withdraws a state the logic did not start on in time.
func (x *Executor) lower() {
	select {
	case <-x.signal:
	default:
	}
}

// collect returns a copy of the last published moves. The buffer is not
// consumed: a logic that misses a window has its previous moves reused.
func (x *Executor) collect() (map[logic.UnitID]logic.MoveInfo, uint64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.err != nil {
		return nil, 0, x.err
	}
	out := make(map[logic.UnitID]logic.MoveInfo, len(x.moves))
	for id, m := range x.moves {
		out[id] = m
	}
	return out, x.movesTick, nil
}

func (x *Executor) run(ctx context.Context) {
	defer close(x.done)

	for {
		select {
		case <-ctx.Done():
			return
		case state := <-x.signal:
			err := x.decide(ctx, state)
			if err == nil {
				continue
			}
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				// Stopped while deciding.
				return
			}
			x.mu.Lock()
			x.err = err
			x.mu.Unlock()
			x.log.Warn("logic failed", "tick", state.Tick, "error", err)
			return
		}
	}
}

func (x *Executor) decide(ctx context.Context, state *logic.TeamState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrLogicFailed, r)
		}
	}()

	result := logic.NewMoveResult(x.team)
	if err := x.logic.Decide(ctx, state, result); err != nil {
		return fmt.Errorf("%w: %w", ErrLogicFailed, err)
	}

	x.mu.Lock()
	x.moves = result.Moves()
	x.movesTick = state.Tick
	x.decisions++
	x.mu.Unlock()
	return nil
}
