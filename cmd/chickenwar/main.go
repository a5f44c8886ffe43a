// chickenwar runs two-team arena matches between pluggable chicken logics.
//
// Usage:
//
//	chickenwar logics            - List registered logics
//	chickenwar run               - Play a headless match and print the result
//	chickenwar watch             - Watch a match in the terminal
//	chickenwar bench             - Play many matches in parallel
//	chickenwar stats             - Show the results ledger
//
// Global flags:
//
//	--config <path>     - Match settings YAML
//	--seed <value>      - Placement seed (0 = from config)
//	--db <path>         - Results database (default: ~/.chickenwar/results.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--preset <name>     - Speed preset: fast, normal, slow
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-war/internal/config"
	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/registry"
	"github.com/vovakirdan/chicken-war/internal/storage"

	// Import logics to register them
	_ "github.com/vovakirdan/chicken-war/internal/logics/hunter"
	_ "github.com/vovakirdan/chicken-war/internal/logics/idle"
	_ "github.com/vovakirdan/chicken-war/internal/logics/random"
	_ "github.com/vovakirdan/chicken-war/internal/logics/spinner"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagPreset   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chickenwar",
	Short: "Chicken War - two teams of chickens, two logics, one arena",
	Long: `Chicken War pits two team logics against each other on a shared
board. Each logic steers its chickens, the engine resolves every tick
deterministically, and finished matches are kept in a results ledger.

Available commands:
  logics   - Show all registered logics
  run      - Play a headless match
  watch    - Watch a match live
  bench    - Play many matches in parallel
  stats    - Show recorded results

Examples:
  chickenwar run --a hunter --b random
  chickenwar watch --preset slow
  chickenwar bench --matches 50 --a hunter --b spinner
  chickenwar stats --tui`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match settings YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Placement seed (0 = use the config's seed)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Speed preset: fast, normal, slow")

	// Add subcommands
	rootCmd.AddCommand(logicsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(statsCmd)
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "chickenwar",
		Level:           level,
	}), nil
}

// teamFlags are the per-match overrides shared by run, watch and bench.
type teamFlags struct {
	logicA, logicB string
	sizeA, sizeB   int
	maxTicks       uint64
}

func (f *teamFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.logicA, "a", "", "Logic for team A (default from config)")
	cmd.Flags().StringVar(&f.logicB, "b", "", "Logic for team B (default from config)")
	cmd.Flags().IntVar(&f.sizeA, "size-a", 0, "Team A size (default from config)")
	cmd.Flags().IntVar(&f.sizeB, "size-b", 0, "Team B size (default from config)")
	cmd.Flags().Uint64Var(&f.maxTicks, "max-ticks", 0, "Tick cap (default from config)")
}

// loadSettings loads the config file and applies global and team overrides.
func loadSettings(tf *teamFlags) (config.Settings, error) {
	settings, err := config.Load(flagConfig)
	if err != nil {
		return settings, err
	}
	if err := config.ApplyPreset(&settings, config.SpeedPreset(flagPreset)); err != nil {
		return settings, err
	}
	if flagSeed != 0 {
		settings.Seed = flagSeed
	}
	if tf != nil {
		if tf.logicA != "" {
			settings.Teams.LogicA = tf.logicA
		}
		if tf.logicB != "" {
			settings.Teams.LogicB = tf.logicB
		}
		if tf.sizeA > 0 {
			settings.Teams.SizeA = tf.sizeA
		}
		if tf.sizeB > 0 {
			settings.Teams.SizeB = tf.sizeB
		}
		if tf.maxTicks > 0 {
			settings.Timing.MaxTicks = tf.maxTicks
		}
	}
	return settings, settings.Validate()
}

// newEngine creates both team logics and an engine for settings.
func newEngine(settings config.Settings, opts ...engine.Option) (*engine.Engine, error) {
	teamA, err := registry.Create(settings.Teams.LogicA)
	if err != nil {
		return nil, err
	}
	teamB, err := registry.Create(settings.Teams.LogicB)
	if err != nil {
		return nil, err
	}
	return engine.New(settings.Engine(), teamA, teamB, opts...)
}

// printResult writes a human readable match summary.
func printResult(w io.Writer, res engine.Result) {
	fmt.Fprintf(w, "Match %s\n", res.MatchID)
	fmt.Fprintf(w, "  Team A: %-10s alive %-3d kills %d\n", res.Logics[0], res.Alive[0], res.Kills[0])
	fmt.Fprintf(w, "  Team B: %-10s alive %-3d kills %d\n", res.Logics[1], res.Alive[1], res.Kills[1])
	switch {
	case res.Winner.Valid():
		fmt.Fprintf(w, "  Winner: team %s (%s)\n", res.Winner, res.Logics[res.Winner])
	case res.Decided():
		fmt.Fprintln(w, "  Result: draw")
	default:
		fmt.Fprintln(w, "  Result: undecided")
	}
	fmt.Fprintf(w, "  Ended:  %s after %d ticks (%s)\n", res.Reason, res.Ticks, res.Duration.Round(time.Millisecond))
	for t, err := range res.TeamErrors {
		if err != nil {
			fmt.Fprintf(w, "  Team %s error: %v\n", logic.Team(t), err)
		}
	}
}
