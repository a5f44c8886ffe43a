// Package engine runs a Chicken War match: one goroutine per team logic,
// one authoritative loop that collects moves every polling window and
// resolves them deterministically through the world package.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/world"
)

var (
	ErrInvalidConfig    = world.ErrInvalidConfig
	ErrInvalidPlacement = world.ErrInvalidPlacement
	ErrInterrupted      = world.ErrInterrupted
	ErrInvalidMove      = logic.ErrInvalidMove

	// ErrRunning is returned by operations that need a stopped engine.
	ErrRunning = errors.New("engine: match is running")
	// ErrFinished is returned by Run once the outcome is decided.
	ErrFinished = errors.New("engine: match already finished")
	// ErrLogicFailed wraps errors and panics raised by a team logic.
	ErrLogicFailed = errors.New("logic failed")
)

// Config holds the timing of a match and the world it runs on.
type Config struct {
	World world.Config

	// PollInterval is the nominal time logics get per tick.
	PollInterval time.Duration
	// SlowDown scales PollInterval; 1 is real time, larger is slower.
	SlowDown float64
	// ExitTimeout bounds the wait for logic goroutines after a stop.
	ExitTimeout time.Duration
	// MaxTicks ends the match after that many ticks. Zero means no cap.
	MaxTicks uint64
	// Seed drives the default random placement.
	Seed int64
}

// Window returns the effective polling window.
func (c Config) Window() time.Duration {
	return time.Duration(float64(c.PollInterval) * c.SlowDown)
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("engine: poll interval %v must be positive: %w", c.PollInterval, ErrInvalidConfig)
	}
	if !(c.SlowDown > 0) {
		return fmt.Errorf("engine: slow-down factor %v must be positive: %w", c.SlowDown, ErrInvalidConfig)
	}
	if c.ExitTimeout <= 0 {
		return fmt.Errorf("engine: exit timeout %v must be positive: %w", c.ExitTimeout, ErrInvalidConfig)
	}
	return nil
}

// State is the run state of the engine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Reason tells why a run ended.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonCompleted: the outcome was decided.
	ReasonCompleted
	// ReasonStopped: Stop was called or the context was cancelled.
	ReasonStopped
	// ReasonTickLimit: MaxTicks was reached first.
	ReasonTickLimit
	// ReasonFailed: an invariant was violated.
	ReasonFailed
)

// String returns the reason as stored in the results ledger.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCompleted:
		return "completed"
	case ReasonStopped:
		return "stopped"
	case ReasonTickLimit:
		return "tick_limit"
	case ReasonFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the engine's cross-cutting state, safe to read from any goroutine.
type Status struct {
	State  State
	Phase  world.Phase
	Tick   uint64
	Winner logic.Team
	Reason Reason
}

// Result is the outcome of one run.
type Result struct {
	MatchID    string
	Reason     Reason
	Winner     logic.Team
	Ticks      uint64
	Kills      [logic.TeamCount]int
	Alive      [logic.TeamCount]int
	Logics     [logic.TeamCount]string
	TeamErrors [logic.TeamCount]error
	Duration   time.Duration
}

// Decided reports whether the match reached an outcome.
func (r Result) Decided() bool {
	return r.Reason == ReasonCompleted
}

// Positioner may assign starting poses. Returning false declines and the
// default random placement is used.
type Positioner interface {
	Place(states []logic.UnitState, board logic.BoardInfo) ([]world.Placement, bool)
}

// PositionerFunc adapts a function to Positioner.
type PositionerFunc func(states []logic.UnitState, board logic.BoardInfo) ([]world.Placement, bool)

// Place calls f.
func (f PositionerFunc) Place(states []logic.UnitState, board logic.BoardInfo) ([]world.Placement, bool) {
	return f(states, board)
}

// ResultRecorder stores finished matches without the engine depending on
// a storage backend.
type ResultRecorder interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the flat record handed to a ResultRecorder.
type MatchResultData struct {
	MatchID    string
	LogicA     string
	LogicB     string
	SizeA      int
	SizeB      int
	WinnerTeam int // -1 for a draw or an undecided match
	Reason     string
	Ticks      uint64
	KillsA     int
	KillsB     int
	Errors     string
	DurationMs int64
}
