package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/world"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPositioner installs a starting layout hook.
func WithPositioner(p Positioner) Option {
	return func(e *Engine) { e.positioner = p }
}

// WithRecorder installs a recorder called when a match ends with an
// outcome or hits the tick cap.
func WithRecorder(r ResultRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// Engine owns the world and the two logic executors of a match.
type Engine struct {
	cfg        Config
	logics     [logic.TeamCount]logic.Logic
	log        *log.Logger
	positioner Positioner
	recorder   ResultRecorder

	// world is touched only by the goroutine running the loop, or by
	// New and Reset while idle.
	world *world.World

	// lifecycle serializes Reset against begin so a reset never swaps
	// the world under a starting loop.
	lifecycle sync.Mutex

	mu        sync.Mutex
	status    Status
	matchID   string
	teamErrs  [logic.TeamCount]error
	executors [logic.TeamCount]*Executor
	cancel    context.CancelFunc
	done      chan struct{}
	result    Result
	runErr    error

	presentation atomic.Pointer[Presentation]
}

// New validates cfg, builds the world and places the units. No goroutine
// is started until Run or Start.
func New(cfg Config, teamA, teamB logic.Logic, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if teamA == nil || teamB == nil {
		return nil, fmt.Errorf("engine: both teams need a logic: %w", ErrInvalidConfig)
	}

	e := &Engine{
		cfg:    cfg,
		logics: [logic.TeamCount]logic.Logic{teamA, teamB},
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.setup(); err != nil {
		return nil, err
	}
	return e, nil
}

// setup builds a fresh world with the starting layout.
func (e *Engine) setup() error {
	w, err := world.New(e.cfg.World)
	if err != nil {
		return err
	}

	placed := false
	if e.positioner != nil {
		var states []logic.UnitState
		for t := 0; t < logic.TeamCount; t++ {
			states = append(states, w.TeamState(logic.Team(t)).Units...)
		}
		if ps, ok := e.positioner.Place(states, e.cfg.World.Board); ok {
			if err := w.Place(ps); err != nil {
				return err
			}
			placed = true
		}
	}
	if !placed {
		if err := w.PlaceRandom(rand.New(rand.NewSource(e.cfg.Seed))); err != nil {
			return err
		}
	}

	e.world = w
	e.mu.Lock()
	e.matchID = uuid.NewString()
	e.teamErrs = [logic.TeamCount]error{}
	e.status = Status{State: StateIdle, Phase: w.Phase(), Winner: logic.NoTeam}
	e.result = Result{}
	e.runErr = nil
	e.mu.Unlock()
	e.publish()
	return nil
}

// Reset returns the match to its starting layout. Only allowed while idle.
func (e *Engine) Reset() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	if e.status.State != StateIdle {
		e.mu.Unlock()
		return ErrRunning
	}
	e.mu.Unlock()
	return e.setup()
}

// MatchID returns the identifier of the current match.
func (e *Engine) MatchID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matchID
}

// Status returns a copy of the current status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Presentation returns the snapshot published after the last tick. It
// never blocks and is never nil.
func (e *Engine) Presentation() *Presentation {
	return e.presentation.Load()
}

// TeamError returns the error that eliminated team's logic, if any.
func (e *Engine) TeamError(team logic.Team) error {
	if !team.Valid() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.teamErrs[team]
}

// Run plays the match on the calling goroutine until it ends, ctx is
// cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	ctx, err := e.begin(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.loop(ctx)
}

// Start plays the match on a new goroutine. Use Wait for the result.
func (e *Engine) Start(ctx context.Context) error {
	ctx, err := e.begin(ctx)
	if err != nil {
		return err
	}
	go e.loop(ctx) //nolint:errcheck // Result is collected through Wait
	return nil
}

// Stop asks a running match to end. It does not wait.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status.State != StateRunning {
		return
	}
	e.status.State = StateStopping
	e.cancel()
}

// Wait blocks until the current run ends and returns its result. It
// returns immediately with the last result when nothing is running.
func (e *Engine) Wait() (Result, error) {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.runErr
}

func (e *Engine) begin(ctx context.Context) (context.Context, error) {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status.State != StateIdle {
		return nil, ErrRunning
	}
	if e.status.Phase == world.PhaseEnded {
		return nil, ErrFinished
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.status.State = StateRunning
	e.status.Reason = ReasonNone
	return ctx, nil
}

// loop drives one run. The world belongs to it until the final status
// update marks the engine idle, so every world read happens before that.
func (e *Engine) loop(ctx context.Context) (Result, error) {
	start := time.Now()
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	e.startExecutors(ctx)
	e.log.Info("match started",
		"match", e.MatchID(),
		"teamA", e.logics[logic.TeamA].Name(),
		"teamB", e.logics[logic.TeamB].Name(),
		"window", e.cfg.Window())

	reason, err := e.play(ctx)

	cancel()
	e.stopExecutors()

	res := e.buildResult(reason, time.Since(start))
	final := e.snapshot()
	final.State = StateIdle
	final.Reason = reason

	if err != nil {
		e.log.Error("match aborted", "match", res.MatchID, "tick", res.Ticks, "error", err)
	} else {
		e.log.Info("match ended", "match", res.MatchID, "reason", reason, "winner", res.Winner, "ticks", res.Ticks)
	}
	if reason == ReasonCompleted || reason == ReasonTickLimit {
		e.record(res)
	}

	e.mu.Lock()
	e.status.State = StateIdle
	e.status.Reason = reason
	e.result = res
	e.runErr = err
	e.presentation.Store(final)
	e.mu.Unlock()

	close(done)
	return res, err
}

// play runs ticks until the match ends. It returns a non-nil error only for
// invariant violations.
func (e *Engine) play(ctx context.Context) (Reason, error) {
	for {
		if ctx.Err() != nil {
			return ReasonStopped, nil
		}
		if e.cfg.MaxTicks > 0 && e.world.Tick() >= e.cfg.MaxTicks {
			return ReasonTickLimit, nil
		}

		// Snapshot and signal.
		for t, x := range e.executors {
			if x != nil {
				x.raise(e.world.TeamState(logic.Team(t)))
			}
		}

		if !sleep(ctx, e.cfg.Window()) {
			return ReasonStopped, nil
		}

		moves, err := e.collect()
		if err != nil {
			return ReasonFailed, err
		}

		rep, err := e.world.Resolve(ctx, moves)
		if errors.Is(err, world.ErrInterrupted) {
			return ReasonStopped, nil
		}
		if err != nil {
			return ReasonFailed, err
		}

		e.mu.Lock()
		e.status.Tick = e.world.Tick()
		e.status.Phase = rep.Phase
		e.status.Winner = rep.Winner
		e.mu.Unlock()
		e.publish()

		if len(rep.Kills) > 0 || rep.Spawned > 0 {
			e.log.Debug("tick resolved",
				"tick", rep.Tick,
				"moved", rep.Moved,
				"rejected", rep.Rejected,
				"spawned", rep.Spawned,
				"kills", len(rep.Kills))
		}
		if rep.Phase == world.PhaseEnded {
			return ReasonCompleted, nil
		}
	}
}

// collect lowers every signal and gathers the latest published moves. A
// logic that failed since the last tick loses all its units here.
func (e *Engine) collect() (map[logic.UnitID]logic.MoveInfo, error) {
	moves := make(map[logic.UnitID]logic.MoveInfo)
	for t, x := range e.executors {
		if x == nil {
			continue
		}
		x.lower()

		team := logic.Team(t)
		m, _, err := x.collect()
		if err != nil {
			e.eliminate(team, err)
			continue
		}
		for id, mv := range m {
			if err := mv.Validate(); err != nil {
				return nil, fmt.Errorf("engine: team %s unit %d: %w", team, id, err)
			}
			if u, ok := e.world.Unit(id); !ok || u.Team != team {
				continue
			}
			moves[id] = mv
		}
	}
	return moves, nil
}

func (e *Engine) eliminate(team logic.Team, err error) {
	n := e.world.KillTeam(team)
	e.mu.Lock()
	e.teamErrs[team] = err
	e.executors[team] = nil
	e.mu.Unlock()
	e.log.Warn("team eliminated by logic error", "team", team, "units", n, "error", err)
}

func (e *Engine) startExecutors(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for t, l := range e.logics {
		if e.teamErrs[t] != nil {
			e.executors[t] = nil
			continue
		}
		x := newExecutor(logic.Team(t), l, e.log)
		e.executors[t] = x
		go x.run(ctx)
	}
}

// stopExecutors waits for the logic goroutines to exit. One that is still
// busy after ExitTimeout is abandoned.
func (e *Engine) stopExecutors() {
	e.mu.Lock()
	xs := e.executors
	e.executors = [logic.TeamCount]*Executor{}
	e.mu.Unlock()

	deadline := time.Now().Add(e.cfg.ExitTimeout)
	for _, x := range xs {
		if x == nil {
			continue
		}
		timer := time.NewTimer(time.Until(deadline))
		select {
		case <-x.Done():
		case <-timer.C:
			x.log.Warn("logic did not exit in time, abandoning it", "timeout", e.cfg.ExitTimeout)
		}
		timer.Stop()
	}
}

func (e *Engine) buildResult(reason Reason, elapsed time.Duration) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := Result{
		MatchID:    e.matchID,
		Reason:     reason,
		Winner:     logic.NoTeam,
		Ticks:      e.world.Tick(),
		Kills:      e.world.Kills(),
		Alive:      e.world.AliveCounts(),
		TeamErrors: e.teamErrs,
		Duration:   elapsed,
	}
	if e.world.Phase() == world.PhaseEnded {
		res.Winner = e.world.Winner()
	}
	for t, l := range e.logics {
		res.Logics[t] = l.Name()
	}
	return res
}

func (e *Engine) record(res Result) {
	if e.recorder == nil {
		return
	}
	var errs []string
	for t, err := range res.TeamErrors {
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", logic.Team(t), err))
		}
	}
	data := MatchResultData{
		MatchID:    res.MatchID,
		LogicA:     res.Logics[logic.TeamA],
		LogicB:     res.Logics[logic.TeamB],
		SizeA:      e.cfg.World.TeamSizes[logic.TeamA],
		SizeB:      e.cfg.World.TeamSizes[logic.TeamB],
		WinnerTeam: int(res.Winner),
		Reason:     res.Reason.String(),
		Ticks:      res.Ticks,
		KillsA:     res.Kills[logic.TeamA],
		KillsB:     res.Kills[logic.TeamB],
		Errors:     strings.Join(errs, "; "),
		DurationMs: res.Duration.Milliseconds(),
	}
	if err := e.recorder.SaveMatchResult(data); err != nil {
		e.log.Warn("cannot record match result", "match", res.MatchID, "error", err)
	}
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
