package world

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/chicken-war/internal/collision"
	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
)

func testRules() logic.Rules {
	return logic.Rules{
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
	}
}

func testConfig(a, b int) Config {
	return Config{
		Board:     logic.BoardInfo{Width: 40, Height: 30},
		Rules:     testRules(),
		TeamSizes: [logic.TeamCount]int{a, b},
	}
}

func newWorld(t *testing.T, cfg Config, ps ...Placement) *World {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(ps) > 0 {
		if err := w.Place(ps); err != nil {
			t.Fatalf("Place() error = %v", err)
		}
	}
	return w
}

func at(id logic.UnitID, x, y, deg float32) Placement {
	return Placement{ID: id, Position: geom.Pt(x, y), Angle: geom.NewAngle(deg)}
}

func fire() logic.MoveInfo {
	return logic.NewMove(logic.NoDirection, logic.NoTurn, logic.FireRegular)
}

func walk(t *testing.T, deg float32) logic.MoveInfo {
	t.Helper()
	d, err := logic.Towards(geom.NewAngle(deg), 1)
	if err != nil {
		t.Fatal(err)
	}
	return logic.NewMove(d, logic.NoTurn, logic.FireNone)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Board.Width = 0 }},
		{"negative height", func(c *Config) { c.Board.Height = -5 }},
		{"empty team", func(c *Config) { c.TeamSizes[1] = 0 }},
		{"zero unit radius", func(c *Config) { c.Rules.UnitRadius = 0 }},
		{"slow shots", func(c *Config) { c.Rules.ShotStep = c.Rules.UnitStep }},
		{"tight separation", func(c *Config) { c.Rules.MinSeparation = 1 }},
		{"tiny board", func(c *Config) { c.Board = logic.BoardInfo{Width: 5, Height: 5} }},
	}

	if err := testConfig(1, 1).Validate(); err != nil {
		t.Fatalf("Validate() on default config = %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(1, 1)
			tc.modify(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestUnitIDsAndTeams(t *testing.T) {
	w := newWorld(t, testConfig(2, 3))
	units := w.Units()
	if len(units) != 5 {
		t.Fatalf("len(Units()) = %d, expected 5", len(units))
	}
	for i, u := range units {
		if u.ID != logic.UnitID(i+1) {
			t.Errorf("units[%d].ID = %d, expected %d", i, u.ID, i+1)
		}
		want := logic.TeamA
		if i >= 2 {
			want = logic.TeamB
		}
		if u.Team != want {
			t.Errorf("units[%d].Team = %v, expected %v", i, u.Team, want)
		}
	}
}

func TestPlaceRandom(t *testing.T) {
	w := newWorld(t, testConfig(6, 6))
	if err := w.PlaceRandom(rand.New(rand.NewSource(42))); err != nil {
		t.Fatalf("PlaceRandom() error = %v", err)
	}
	for _, u := range w.Units() {
		left := u.Position.X < w.Board().Width/2
		if (u.Team == logic.TeamA) != left {
			t.Errorf("unit %d of team %v placed at %v", u.ID, u.Team, u.Position)
		}
	}

	crowded := newWorld(t, testConfig(200, 200))
	if err := crowded.PlaceRandom(rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("PlaceRandom() on crowded board error = %v, expected ErrInvalidConfig", err)
	}
}

func TestPlaceRejectsOverlap(t *testing.T) {
	w := newWorld(t, testConfig(1, 1))
	if err := w.Place([]Placement{at(1, 10, 10, 0), at(2, 11, 10, 180)}); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("Place() overlapping error = %v, expected ErrInvalidPlacement", err)
	}
	if err := w.Place([]Placement{at(1, 0.5, 10, 0), at(2, 20, 10, 180)}); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("Place() on boundary error = %v, expected ErrInvalidPlacement", err)
	}
	if err := w.Place([]Placement{at(9, 5, 5, 0)}); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("Place() unknown unit error = %v, expected ErrInvalidPlacement", err)
	}
}

func TestMoveRejections(t *testing.T) {
	t.Run("board collision", func(t *testing.T) {
		w := newWorld(t, testConfig(1, 1), at(1, 1.6, 10, 180), at(2, 30, 10, 180))
		if _, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{1: walk(t, 180)}); err != nil {
			t.Fatal(err)
		}
		u, _ := w.Unit(1)
		if u.LastOutcome != logic.OutcomeBoardCollision {
			t.Errorf("LastOutcome = %v, expected board collision", u.LastOutcome)
		}
		if u.Position != geom.Pt(1.6, 10) {
			t.Errorf("Position = %v, expected unchanged", u.Position)
		}
	})

	t.Run("unit collision", func(t *testing.T) {
		cfg := testConfig(1, 1)
		cfg.Rules.UnitStep = 1.5
		w := newWorld(t, cfg, at(1, 10, 10, 0), at(2, 13.5, 10, 90))
		rep, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{1: walk(t, 0)})
		if err != nil {
			t.Fatal(err)
		}
		u, _ := w.Unit(1)
		if u.LastOutcome != logic.OutcomeUnitCollision || u.Obstruction != 2 {
			t.Errorf("outcome = %v obstruction = %d, expected unit collision with 2", u.LastOutcome, u.Obstruction)
		}
		if rep.Rejected != 1 || rep.Moved != 0 {
			t.Errorf("report = %+v, expected one rejection", rep)
		}
	})

	t.Run("accepted move and turn", func(t *testing.T) {
		w := newWorld(t, testConfig(1, 1), at(1, 10, 10, 0), at(2, 30, 10, 180))
		m := walk(t, 90)
		m.Turn = 1
		if _, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{1: m}); err != nil {
			t.Fatal(err)
		}
		u, _ := w.Unit(1)
		if u.LastOutcome != logic.OutcomeAccepted {
			t.Errorf("LastOutcome = %v, expected accepted", u.LastOutcome)
		}
		if !u.Position.NearlyEqual(geom.Pt(10, 10.5)) {
			t.Errorf("Position = %v, expected (10, 10.5)", u.Position)
		}
		if !geom.NearlyEqual(u.Angle.Degrees(), 10) {
			t.Errorf("Angle = %v, expected 10", u.Angle)
		}
	})
}

func TestResolveValidatesMoves(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 10, 10, 0), at(2, 30, 10, 180))
	_, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{1: {Turn: 3}})
	if !errors.Is(err, logic.ErrInvalidMove) {
		t.Errorf("Resolve() error = %v, expected ErrInvalidMove", err)
	}
	if w.Tick() != 0 {
		t.Errorf("Tick() = %d, expected 0", w.Tick())
	}
}

func TestResolveInterrupted(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 10, 10, 0), at(2, 30, 10, 180))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Resolve(ctx, nil); !errors.Is(err, ErrInterrupted) {
		t.Errorf("Resolve() error = %v, expected ErrInterrupted", err)
	}
	if w.Tick() != 0 {
		t.Errorf("Tick() = %d, expected 0", w.Tick())
	}
}

func TestPointBlankKill(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 5, 5, 0), at(2, 9, 5, 180))
	rep, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{1: fire()})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Kills) != 1 || rep.Kills[0].Victim != 2 || rep.Kills[0].Killer != 1 {
		t.Fatalf("Kills = %+v, expected unit 1 killing unit 2", rep.Kills)
	}
	if w.Phase() != PhaseEnded || w.Winner() != logic.TeamA {
		t.Errorf("phase = %v winner = %v, expected ended with team A", w.Phase(), w.Winner())
	}
	shooter, _ := w.Unit(1)
	if shooter.Kills != 1 {
		t.Errorf("Kills = %d, expected 1", shooter.Kills)
	}
	victim, _ := w.Unit(2)
	if victim.Alive || victim.KilledBy != 1 {
		t.Errorf("victim alive = %v killedBy = %d", victim.Alive, victim.KilledBy)
	}
}

func TestKillAccounting(t *testing.T) {
	tests := []struct {
		name      string
		owner     logic.UnitID
		victim    logic.UnitID
		wantKills int
	}{
		{"suicide", 1, 1, 0},
		{"team kill", 2, 1, 0},
		{"enemy kill", 3, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newWorld(t, testConfig(2, 1), at(1, 10, 10, 0), at(2, 10, 20, 0), at(3, 30, 10, 180))
			owner, _ := w.Unit(tc.owner)
			victim, _ := w.Unit(tc.victim)
			// Shot placed one step behind the victim, heading into it.
			w.shots = append(w.shots, &Projectile{
				ID:        99,
				OwnerID:   owner.ID,
				OwnerTeam: owner.Team,
				Heading:   geom.NewAngle(90),
				Position:  victim.Position.Add(geom.Vec(0, -1-w.Rules().ShotStep)),
			})

			rep, err := w.Resolve(context.Background(), nil)
			if err != nil {
				t.Fatal(err)
			}
			if victim.Alive {
				t.Error("victim should be dead")
			}
			if victim.KilledBy != owner.ID {
				t.Errorf("KilledBy = %d, expected %d", victim.KilledBy, owner.ID)
			}
			if owner.Kills != tc.wantKills {
				t.Errorf("owner Kills = %d, expected %d", owner.Kills, tc.wantKills)
			}
			if len(rep.Kills) != 1 || rep.Kills[0].Suicide() != (tc.owner == tc.victim) {
				t.Errorf("Kills = %+v", rep.Kills)
			}
			var total int
			for _, k := range w.Kills() {
				total += k
			}
			if total != tc.wantKills {
				t.Errorf("team kills total = %d, expected %d", total, tc.wantKills)
			}
		})
	}
}

func TestShotKillsOnlyLowestID(t *testing.T) {
	cfg := testConfig(1, 2)
	cfg.Rules.ShotRadius = 1
	w := newWorld(t, cfg, at(1, 5, 5, 0), at(2, 20, 10, 180), at(3, 20, 13.6, 180))
	// Wide shot ending between units 2 and 3, touching both.
	w.shots = append(w.shots, &Projectile{
		ID:        7,
		OwnerID:   1,
		OwnerTeam: logic.TeamA,
		Heading:   geom.NewAngle(0),
		Position:  geom.Pt(20-cfg.Rules.ShotStep, 11.8),
	})

	rep, err := w.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	u2, _ := w.Unit(2)
	u3, _ := w.Unit(3)
	if u2.Alive {
		t.Error("unit 2 should be dead")
	}
	if !u3.Alive {
		t.Error("unit 3 should survive, one shot kills one unit")
	}
	if len(rep.Kills) != 1 || rep.Kills[0].Victim != 2 {
		t.Errorf("Kills = %+v, expected only unit 2", rep.Kills)
	}
	if len(w.Shots()) != 0 {
		t.Errorf("len(Shots()) = %d, expected the shot to be spent", len(w.Shots()))
	}
	if w.Phase() != PhaseActive {
		t.Errorf("Phase() = %v, expected active", w.Phase())
	}
}

func TestShotsAnnihilate(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 5, 15, 0), at(2, 35, 15, 180))
	w.shots = append(w.shots,
		&Projectile{ID: 1, OwnerID: 1, OwnerTeam: logic.TeamA, Heading: geom.NewAngle(0), Position: geom.Pt(18, 15)},
		&Projectile{ID: 2, OwnerID: 2, OwnerTeam: logic.TeamB, Heading: geom.NewAngle(180), Position: geom.Pt(22.2, 15)},
	)
	rep, err := w.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Exploded != 2 || len(w.Shots()) != 0 {
		t.Errorf("exploded = %d shots left = %d, expected 2 and 0", rep.Exploded, len(w.Shots()))
	}
	if w.Phase() != PhaseActive {
		t.Errorf("Phase() = %v, expected active", w.Phase())
	}
}

func TestShotLeavesBoard(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 5, 15, 90), at(2, 35, 15, 180))
	w.shots = append(w.shots, &Projectile{ID: 1, OwnerID: 1, OwnerTeam: logic.TeamA, Heading: geom.NewAngle(90), Position: geom.Pt(5, 29)})
	if _, err := w.Resolve(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if len(w.Shots()) != 0 {
		t.Errorf("len(Shots()) = %d, expected 0", len(w.Shots()))
	}
}

func TestCooldown(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 5, 25, 90), at(2, 35, 5, 180))
	moves := map[logic.UnitID]logic.MoveInfo{1: fire()}
	spawned := 0
	for i := 0; i < 6; i++ {
		rep, err := w.Resolve(context.Background(), moves)
		if err != nil {
			t.Fatal(err)
		}
		spawned += rep.Spawned
	}
	// Fires on tick 0 and tick 5.
	if spawned != 2 {
		t.Errorf("spawned = %d, expected 2", spawned)
	}
}

func TestFinalizingFairness(t *testing.T) {
	t.Run("no enemy shot left", func(t *testing.T) {
		w := newWorld(t, testConfig(1, 1), at(1, 5, 15, 0), at(2, 35, 15, 180))
		w.KillTeam(logic.TeamA)

		st := w.TeamState(logic.TeamB)
		if st.Units[0].CanFire {
			t.Error("sole survivor should not be allowed to fire")
		}
		rep, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{2: fire()})
		if err != nil {
			t.Fatal(err)
		}
		if rep.Spawned != 0 {
			t.Errorf("Spawned = %d, expected 0", rep.Spawned)
		}
		if w.Phase() != PhaseEnded || w.Winner() != logic.TeamB {
			t.Errorf("phase = %v winner = %v, expected ended with team B", w.Phase(), w.Winner())
		}
	})

	t.Run("enemy shot in flight", func(t *testing.T) {
		w := newWorld(t, testConfig(1, 1), at(1, 5, 15, 0), at(2, 35, 15, 180))
		w.shots = append(w.shots, &Projectile{ID: 7, OwnerID: 1, OwnerTeam: logic.TeamA, Heading: geom.NewAngle(-90), Position: geom.Pt(20, 25)})
		w.KillTeam(logic.TeamA)

		rep, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{2: fire()})
		if err != nil {
			t.Fatal(err)
		}
		if rep.Spawned != 1 {
			t.Errorf("Spawned = %d, expected 1", rep.Spawned)
		}
		if w.Phase() != PhaseFinalizing {
			t.Errorf("Phase() = %v, expected finalizing", w.Phase())
		}

		// Keep simulating until every shot is gone; no new shot may appear
		// once team A's shot has left the board.
		for i := 0; i < 50 && w.Phase() != PhaseEnded; i++ {
			before := 0
			for _, p := range w.Shots() {
				if p.OwnerTeam == logic.TeamA {
					before++
				}
			}
			rep, err := w.Resolve(context.Background(), map[logic.UnitID]logic.MoveInfo{2: fire()})
			if err != nil {
				t.Fatal(err)
			}
			if before == 0 && rep.Spawned > 0 {
				t.Fatalf("tick %d: team B fired with no enemy shot in flight", rep.Tick)
			}
		}
		if w.Phase() != PhaseEnded || w.Winner() != logic.TeamB {
			t.Errorf("phase = %v winner = %v, expected ended with team B", w.Phase(), w.Winner())
		}
	})
}

func TestDraw(t *testing.T) {
	w := newWorld(t, testConfig(1, 1), at(1, 5, 15, 0), at(2, 35, 15, 180))
	w.KillTeam(logic.TeamA)
	w.KillTeam(logic.TeamB)
	if _, err := w.Resolve(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if w.Phase() != PhaseEnded || w.Winner() != logic.NoTeam {
		t.Errorf("phase = %v winner = %v, expected draw", w.Phase(), w.Winner())
	}
}

// randomMoves produces the same move sequence for the same seed.
func randomMoves(rng *rand.Rand, units []Unit) map[logic.UnitID]logic.MoveInfo {
	moves := make(map[logic.UnitID]logic.MoveInfo)
	for _, u := range units {
		if !u.Alive {
			continue
		}
		dir, _ := logic.NewDirection(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32())
		turn, _ := logic.NewTurn(rng.Float32()*2 - 1)
		f := logic.FireNone
		if rng.Intn(4) == 0 {
			f = logic.FireRegular
		}
		moves[u.ID] = logic.NewMove(dir, turn, f)
	}
	return moves
}

func simulate(t *testing.T, seed int64, ticks int) *World {
	t.Helper()
	w := newWorld(t, testConfig(5, 5))
	if err := w.PlaceRandom(rand.New(rand.NewSource(seed))); err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(seed + 1))
	for i := 0; i < ticks && w.Phase() != PhaseEnded; i++ {
		if _, err := w.Resolve(context.Background(), randomMoves(rng, w.Units())); err != nil {
			t.Fatal(err)
		}
		assertMutualExclusion(t, w)
	}
	return w
}

func assertMutualExclusion(t *testing.T, w *World) {
	t.Helper()
	units := w.Units()
	r := w.Rules()
	for i := range units {
		if !units[i].Alive {
			continue
		}
		e := units[i].Element(r)
		if w.Board().Collides(units[i].Position, e) {
			t.Fatalf("tick %d: unit %d touches the boundary at %v", w.Tick(), units[i].ID, units[i].Position)
		}
		for j := i + 1; j < len(units); j++ {
			if units[j].Alive && collision.ElementsCollide(e, units[j].Element(r)) {
				t.Fatalf("tick %d: units %d and %d overlap", w.Tick(), units[i].ID, units[j].ID)
			}
		}
	}
}

func TestResolveDeterminism(t *testing.T) {
	a := simulate(t, 7, 400)
	b := simulate(t, 7, 400)

	if !reflect.DeepEqual(a.Units(), b.Units()) {
		t.Error("units differ between identical runs")
	}
	if !reflect.DeepEqual(a.Shots(), b.Shots()) {
		t.Error("shots differ between identical runs")
	}
	if a.Kills() != b.Kills() || a.Phase() != b.Phase() || a.Winner() != b.Winner() || a.Tick() != b.Tick() {
		t.Errorf("outcome differs: %v/%v/%v vs %v/%v/%v", a.Kills(), a.Phase(), a.Winner(), b.Kills(), b.Phase(), b.Winner())
	}
}

func TestTeamStateView(t *testing.T) {
	cfg := testConfig(2, 1)
	cfg.Rules.FieldOfView = 90
	w := newWorld(t, cfg, at(1, 10, 10, 0), at(2, 10, 20, 0), at(3, 20, 10, 180))

	s := w.TeamState(logic.TeamA)
	if s.Team != logic.TeamA || len(s.Units) != 2 {
		t.Fatalf("TeamState() = %+v", s)
	}
	u1 := s.Units[0]
	if len(u1.View.Units) != 1 || u1.View.Units[0].ID != 3 {
		t.Errorf("unit 1 view = %+v, expected only unit 3", u1.View.Units)
	}
	if !u1.CanFire {
		t.Error("unit 1 should be able to fire")
	}

	w.KillTeam(logic.TeamB)
	s = w.TeamState(logic.TeamA)
	if len(s.Units[0].View.Units) != 0 {
		t.Error("dead units must not be visible")
	}
}
