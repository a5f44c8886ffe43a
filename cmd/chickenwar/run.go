package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/storage"
)

var (
	runTeams  teamFlags
	runNoSave bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a headless match",
	Long: `Play one match without a display and print the result.
Decided matches and matches that hit the tick cap are recorded in the
results ledger unless --no-save is given. Ctrl+C stops the match.

Examples:
  chickenwar run
  chickenwar run --a hunter --b random --size-a 8 --size-b 8
  chickenwar run --seed 42 --preset fast --no-save`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runTeams.register(runCmd)
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Do not record the result")
}

func runRun(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	settings, err := loadSettings(&runTeams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if !runNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, engine.WithRecorder(store))
	}

	eng, err := newEngine(settings, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating match: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := eng.Run(ctx)
	printResult(os.Stdout, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: match failed: %v\n", err)
		os.Exit(1)
	}
}
