package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/platform/tui"
	"github.com/vovakirdan/chicken-war/internal/storage"
)

var (
	watchTeams   teamFlags
	watchPick    bool
	watchNoSave  bool
	watchLogFile string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a match live",
	Long: `Play a match and draw it in the terminal.

Controls:
  S          - Stop the match
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Examples:
  chickenwar watch
  chickenwar watch --pick
  chickenwar watch --a hunter --b hunter --preset slow
  chickenwar watch --log-file /tmp/chickenwar.log`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchTeams.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchPick, "pick", false, "Choose both logics interactively")
	watchCmd.Flags().BoolVar(&watchNoSave, "no-save", false, "Do not record the result")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Write engine logs to this file")
}

func runWatch(cmd *cobra.Command, args []string) {
	if watchPick {
		a, b, ok, err := tui.PickLogics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			return
		}
		watchTeams.logicA, watchTeams.logicB = a, b
	}

	settings, err := loadSettings(&watchTeams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	// Logs would tear the alternate screen, so they go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if watchLogFile != "" {
		f, err := os.OpenFile(watchLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if !watchNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("results will not be recorded", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, engine.WithRecorder(store))
		}
	}

	eng, err := newEngine(settings, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating match: %v\n", err)
		os.Exit(1)
	}

	if err := eng.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting match: %v\n", err)
		os.Exit(1)
	}

	uiErr := tui.Watch(eng, settings.PollInterval())

	// Quitting the viewer ends the match if it is still going.
	eng.Stop()
	res, runErr := eng.Wait()

	if uiErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", uiErr)
		os.Exit(1)
	}
	printResult(os.Stdout, res)
	if runErr != nil {
		log.Error("match failed", "error", runErr)
		os.Exit(1)
	}
}
