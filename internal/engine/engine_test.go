package engine

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/world"
)

func testConfig() Config {
	return Config{
		World: world.Config{
			Board: logic.BoardInfo{Width: 40, Height: 30},
			Rules: logic.Rules{
				UnitRadius:    1,
				BeakLength:    0.5,
				BeakWidth:     0.6,
				UnitStep:      0.5,
				TurnStep:      10,
				ShotRadius:    0.2,
				ShotStep:      2,
				CooldownTicks: 5,
				MinSeparation: 3.5,
				FieldOfView:   360,
			},
			TeamSizes: [logic.TeamCount]int{1, 1},
		},
		PollInterval: 2 * time.Millisecond,
		SlowDown:     1,
		ExitTimeout:  200 * time.Millisecond,
		MaxTicks:     200,
		Seed:         1,
	}
}

// faceOff puts unit 1 at (5,5) facing unit 2 at (9,5).
var faceOff = PositionerFunc(func(states []logic.UnitState, _ logic.BoardInfo) ([]world.Placement, bool) {
	return []world.Placement{
		{ID: 1, Position: geom.Pt(5, 5), Angle: geom.NewAngle(0)},
		{ID: 2, Position: geom.Pt(9, 5), Angle: geom.NewAngle(180)},
	}, true
})

func idle() logic.Logic {
	return logic.Func("idle", func(context.Context, *logic.TeamState, *logic.MoveResult) error {
		return nil
	})
}

func shooter() logic.Logic {
	return logic.Func("shooter", func(_ context.Context, s *logic.TeamState, r *logic.MoveResult) error {
		for _, u := range s.Alive() {
			r.Set(u, logic.NewMove(logic.NoDirection, logic.NoTurn, logic.FireRegular))
		}
		return nil
	})
}

type memRecorder struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (m *memRecorder) SaveMatchResult(r MatchResultData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func run(t *testing.T, cfg Config, a, b logic.Logic, opts ...Option) (Result, error) {
	t.Helper()
	e, err := New(cfg, a, b, append([]Option{WithPositioner(faceOff)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Run(ctx)
}

func TestPointBlankMatch(t *testing.T) {
	rec := &memRecorder{}
	res, err := run(t, testConfig(), shooter(), idle(), WithRecorder(rec))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Reason != ReasonCompleted {
		t.Fatalf("Reason = %v, expected completed", res.Reason)
	}
	if res.Winner != logic.TeamA {
		t.Errorf("Winner = %v, expected A", res.Winner)
	}
	if res.Alive[logic.TeamB] != 0 || res.Kills[logic.TeamA] != 1 {
		t.Errorf("Alive = %v Kills = %v", res.Alive, res.Kills)
	}
	if res.Ticks > 50 {
		t.Errorf("Ticks = %d, expected a quick kill", res.Ticks)
	}

	if len(rec.results) != 1 {
		t.Fatalf("recorded %d results, expected 1", len(rec.results))
	}
	got := rec.results[0]
	if got.WinnerTeam != 0 || got.LogicA != "shooter" || got.Reason != "completed" || got.MatchID != res.MatchID {
		t.Errorf("recorded %+v", got)
	}
}

func TestLogicErrorEliminatesTeam(t *testing.T) {
	tests := []struct {
		name  string
		logic logic.Logic
	}{
		{"returned error", logic.Func("broken", func(context.Context, *logic.TeamState, *logic.MoveResult) error {
			return errors.New("boom")
		})},
		{"panic", logic.Func("panicky", func(context.Context, *logic.TeamState, *logic.MoveResult) error {
			panic("boom")
		})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New(testConfig(), idle(), tc.logic, WithPositioner(faceOff))
			if err != nil {
				t.Fatal(err)
			}
			res, err := e.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Reason != ReasonCompleted || res.Winner != logic.TeamA {
				t.Errorf("Reason = %v Winner = %v, expected completed with A", res.Reason, res.Winner)
			}
			if !errors.Is(res.TeamErrors[logic.TeamB], ErrLogicFailed) {
				t.Errorf("TeamErrors[B] = %v, expected ErrLogicFailed", res.TeamErrors[logic.TeamB])
			}
			if !errors.Is(e.TeamError(logic.TeamB), ErrLogicFailed) {
				t.Errorf("TeamError(B) = %v", e.TeamError(logic.TeamB))
			}
			if e.TeamError(logic.TeamA) != nil {
				t.Errorf("TeamError(A) = %v, expected nil", e.TeamError(logic.TeamA))
			}
			if p := e.Presentation(); p.TeamErrors[logic.TeamB] == "" {
				t.Error("presentation should carry the team error")
			}
		})
	}
}

func TestSlowLogicDoesNotBlock(t *testing.T) {
	slow := logic.Func("slow", func(ctx context.Context, _ *logic.TeamState, _ *logic.MoveResult) error {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return nil
	})

	start := time.Now()
	res, err := run(t, testConfig(), shooter(), slow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Winner != logic.TeamA {
		t.Errorf("Winner = %v, expected A", res.Winner)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("match took %v, engine waited for the slow logic", elapsed)
	}
}

func TestStuckLogicIsAbandoned(t *testing.T) {
	stuck := logic.Func("stuck", func(context.Context, *logic.TeamState, *logic.MoveResult) error {
		time.Sleep(2 * time.Second)
		return nil
	})
	cfg := testConfig()
	cfg.ExitTimeout = 20 * time.Millisecond

	start := time.Now()
	res, err := run(t, cfg, shooter(), stuck)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != ReasonCompleted {
		t.Errorf("Reason = %v, expected completed", res.Reason)
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("Run() took %v, expected the stuck logic to be abandoned", elapsed)
	}
}

func TestStaleMovesAreReused(t *testing.T) {
	var once sync.Once
	walker := logic.Func("walker", func(ctx context.Context, s *logic.TeamState, r *logic.MoveResult) error {
		answered := false
		once.Do(func() {
			d, _ := logic.NewDirection(0, 1, 1)
			for _, u := range s.Alive() {
				r.Set(u, logic.NewMove(d, logic.NoTurn, logic.FireNone))
			}
			answered = true
		})
		if !answered {
			<-ctx.Done()
		}
		return nil
	})

	cfg := testConfig()
	cfg.MaxTicks = 10
	e, err := New(cfg, walker, idle(), WithPositioner(faceOff))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	p := e.Presentation()
	var y float32
	for _, u := range p.Units {
		if u.ID == 1 {
			y = u.Position.Y
		}
	}
	// One published move, reused on later ticks: well over one step.
	if y < 5+2*cfg.World.Rules.UnitStep {
		t.Errorf("unit 1 at y = %v, expected the stale move to keep it walking", y)
	}
}

func TestStopAndReset(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 0
	e, err := New(cfg, idle(), idle())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("second Run() error = %v, expected ErrRunning", err)
	}
	if err := e.Reset(); !errors.Is(err, ErrRunning) {
		t.Errorf("Reset() while running error = %v, expected ErrRunning", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for e.Status().Tick < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	e.Stop()
	res, err := e.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if res.Reason != ReasonStopped {
		t.Errorf("Reason = %v, expected stopped", res.Reason)
	}
	if st := e.Status(); st.State != StateIdle || st.Reason != ReasonStopped {
		t.Errorf("Status() = %+v, expected idle/stopped", st)
	}

	before := e.Presentation().Units
	oldID := e.MatchID()
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if e.Status().Tick != 0 || e.MatchID() == oldID {
		t.Errorf("Reset() left tick %d, match %s", e.Status().Tick, e.MatchID())
	}
	after := e.Presentation().Units
	if len(before) != len(after) {
		t.Fatalf("unit count changed across Reset")
	}
	for i := range after {
		if after[i].Position != before[i].Position {
			// Idle logics never move, so the seeded layout is the same.
			t.Errorf("unit %d at %v after Reset, expected %v", after[i].ID, after[i].Position, before[i].Position)
		}
	}
}

func TestRestartAfterIdleStatus(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 0
	cfg.PollInterval = time.Millisecond
	e, err := New(cfg, shooter(), idle())
	if err != nil {
		t.Fatal(err)
	}

	waitIdle := func() {
		deadline := time.Now().Add(5 * time.Second)
		for e.Status().State != StateIdle {
			if time.Now().After(deadline) {
				t.Fatal("engine did not become idle")
			}
			runtime.Gosched()
		}
	}

	for i := 0; i < 20; i++ {
		if err := e.Start(context.Background()); err != nil {
			if errors.Is(err, ErrFinished) {
				if err := e.Reset(); err != nil {
					t.Fatalf("round %d: Reset() error = %v", i, err)
				}
				continue
			}
			t.Fatalf("round %d: Start() error = %v", i, err)
		}
		e.Stop()
		waitIdle()

		// The loop is done with the world once idle is visible.
		if p := e.Presentation(); p.State != StateIdle {
			t.Errorf("round %d: presentation state = %v, expected idle", i, p.State)
		}
		if i%2 == 1 {
			if err := e.Reset(); err != nil {
				t.Fatalf("round %d: Reset() error = %v", i, err)
			}
		}
	}
	e.Stop()
	if _, err := e.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestRunAfterFinish(t *testing.T) {
	e, err := New(testConfig(), shooter(), idle(), WithPositioner(faceOff))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrFinished) {
		t.Errorf("Run() after finish error = %v, expected ErrFinished", err)
	}
	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	if e.Status().Phase != world.PhaseActive {
		t.Errorf("Phase after Reset = %v, expected active", e.Status().Phase)
	}
}

func TestTickLimitIsRecorded(t *testing.T) {
	rec := &memRecorder{}
	cfg := testConfig()
	cfg.MaxTicks = 5
	res, err := run(t, cfg, idle(), idle(), WithRecorder(rec))
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != ReasonTickLimit || res.Ticks != 5 || res.Winner != logic.NoTeam {
		t.Errorf("Result = %+v, expected tick limit after 5 ticks", res)
	}
	if len(rec.results) != 1 || rec.results[0].WinnerTeam != -1 {
		t.Errorf("recorded %+v", rec.results)
	}
}

func TestInvalidMoveAbortsRun(t *testing.T) {
	bad := logic.Func("bad", func(_ context.Context, s *logic.TeamState, r *logic.MoveResult) error {
		for _, u := range s.Alive() {
			r.Set(u, logic.MoveInfo{Turn: 5})
		}
		return nil
	})
	rec := &memRecorder{}
	res, err := run(t, testConfig(), bad, idle(), WithRecorder(rec))
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Run() error = %v, expected ErrInvalidMove", err)
	}
	if res.Reason != ReasonFailed {
		t.Errorf("Reason = %v, expected failed", res.Reason)
	}
	if len(rec.results) != 0 {
		t.Error("aborted runs must not be recorded")
	}
}

func TestNewErrors(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = 0
	if _, err := New(cfg, idle(), idle()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
	}

	cfg = testConfig()
	cfg.World.TeamSizes[0] = 0
	if _, err := New(cfg, idle(), idle()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
	}

	if _, err := New(testConfig(), idle(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() with nil logic error = %v, expected ErrInvalidConfig", err)
	}

	overlap := PositionerFunc(func([]logic.UnitState, logic.BoardInfo) ([]world.Placement, bool) {
		return []world.Placement{
			{ID: 1, Position: geom.Pt(10, 10)},
			{ID: 2, Position: geom.Pt(11, 10)},
		}, true
	})
	if _, err := New(testConfig(), idle(), idle(), WithPositioner(overlap)); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("New() error = %v, expected ErrInvalidPlacement", err)
	}

	declined := PositionerFunc(func([]logic.UnitState, logic.BoardInfo) ([]world.Placement, bool) {
		return nil, false
	})
	if _, err := New(testConfig(), idle(), idle(), WithPositioner(declined)); err != nil {
		t.Errorf("New() with declining positioner error = %v", err)
	}
}

func TestPresentationBeforeRun(t *testing.T) {
	e, err := New(testConfig(), idle(), idle(), WithPositioner(faceOff))
	if err != nil {
		t.Fatal(err)
	}
	p := e.Presentation()
	if p == nil {
		t.Fatal("Presentation() = nil")
	}
	if len(p.Units) != 2 || p.Tick != 0 || p.State != StateIdle {
		t.Errorf("Presentation() = %+v", p)
	}
	if p.Logics[logic.TeamA] != "idle" || p.Board.Width != 40 {
		t.Errorf("Presentation() = %+v", p)
	}
}

func TestConfigWindow(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = 20 * time.Millisecond
	cfg.SlowDown = 2.5
	if got := cfg.Window(); got != 50*time.Millisecond {
		t.Errorf("Window() = %v, expected 50ms", got)
	}
}
