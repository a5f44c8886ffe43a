package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/chicken-war/internal/config"
	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/storage"
)

var (
	benchTeams    teamFlags
	benchMatches  int
	benchParallel int
	benchSave     bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play many matches in parallel",
	Long: `Play a series of matches between the same two logics and print
how often each side won. Match i uses seed+i for placement.

Examples:
  chickenwar bench --matches 100 --a hunter --b random --preset fast
  chickenwar bench --matches 20 --parallel 2 --save`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	benchTeams.register(benchCmd)
	benchCmd.Flags().IntVar(&benchMatches, "matches", 10, "Number of matches")
	benchCmd.Flags().IntVar(&benchParallel, "parallel", runtime.NumCPU(), "Matches played at once")
	benchCmd.Flags().BoolVar(&benchSave, "save", false, "Record every result in the ledger")
}

// benchTally aggregates bench outcomes.
type benchTally struct {
	mu      sync.Mutex
	wins    [logic.TeamCount]int
	kills   [logic.TeamCount]int
	draws   int
	capped  int
	stopped int
	ticks   uint64
}

func (t *benchTally) add(res engine.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case res.Reason == engine.ReasonStopped:
		t.stopped++
		return
	case res.Winner.Valid():
		t.wins[res.Winner]++
	case res.Reason == engine.ReasonTickLimit:
		t.capped++
	default:
		t.draws++
	}
	for i := range t.kills {
		t.kills[i] += res.Kills[i]
	}
	t.ticks += res.Ticks
}

// played returns the number of matches that were not stopped.
func (t *benchTally) played() int {
	return t.wins[0] + t.wins[1] + t.draws + t.capped
}

func runBench(cmd *cobra.Command, args []string) {
	if benchMatches <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --matches must be positive")
		os.Exit(1)
	}

	logger, err := newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	settings, err := loadSettings(&benchTeams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	var store *storage.Store
	if benchSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	tally, err := bench(ctx, settings, benchMatches, benchParallel, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("bench finished", "matches", benchMatches, "elapsed", time.Since(start))

	printTally(settings, tally, time.Since(start))
}

// bench plays n matches, at most parallel at a time. The first failing
// match cancels the rest.
func bench(ctx context.Context, settings config.Settings, n, parallel int, store *storage.Store) (*benchTally, error) {
	tally := &benchTally{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	for i := range n {
		s := settings
		s.Seed = settings.Seed + int64(i)

		g.Go(func() error {
			opts := []engine.Option{}
			if store != nil {
				opts = append(opts, engine.WithRecorder(store))
			}
			eng, err := newEngine(s, opts...)
			if err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			res, err := eng.Run(ctx)
			if err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			tally.add(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return tally, err
	}
	return tally, nil
}

func printTally(settings config.Settings, t *benchTally, elapsed time.Duration) {
	played := t.played()
	fmt.Printf("Bench - %s (A) vs %s (B), %dv%d\n", settings.Teams.LogicA, settings.Teams.LogicB,
		settings.Teams.SizeA, settings.Teams.SizeB)
	fmt.Println()
	fmt.Printf("  %-10s  %6s  %6s\n", "Outcome", "Count", "Share")
	fmt.Printf("  %-10s  %6s  %6s\n", "-------", "-----", "-----")
	rows := []struct {
		name  string
		count int
	}{
		{"A wins", t.wins[0]},
		{"B wins", t.wins[1]},
		{"Draws", t.draws},
		{"Tick cap", t.capped},
	}
	for _, r := range rows {
		share := 0.0
		if played > 0 {
			share = float64(r.count) / float64(played) * 100
		}
		fmt.Printf("  %-10s  %6d  %5.1f%%\n", r.name, r.count, share)
	}
	fmt.Println()
	if played > 0 {
		fmt.Printf("Kills A:B %d:%d, %.0f ticks per match\n", t.kills[0], t.kills[1], float64(t.ticks)/float64(played))
	}
	if t.stopped > 0 {
		fmt.Printf("%d matches were interrupted\n", t.stopped)
	}
	fmt.Printf("Finished in %s\n", elapsed.Round(time.Millisecond))
}
