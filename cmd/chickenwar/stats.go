package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-war/internal/platform/tui"
	"github.com/vovakirdan/chicken-war/internal/storage"
)

var (
	statsTUI   bool
	statsLimit int
	statsClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded results",
	Long: `Show per-logic standings and the most recent matches from the
results ledger.

Examples:
  chickenwar stats
  chickenwar stats --limit 5
  chickenwar stats --tui
  chickenwar stats --clear`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsTUI, "tui", false, "Open the interactive results board")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "Number of recent matches to list")
	statsCmd.Flags().BoolVar(&statsClear, "clear", false, "Delete every recorded match")
}

func runStats(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if statsClear {
		if err := store.ClearMatches(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Results cleared.")
		return
	}

	if statsTUI {
		if err := tui.RunResultsBoard(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running results board: %v\n", err)
			os.Exit(1)
		}
		return
	}

	stats, err := store.LogicStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	if len(stats) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'chickenwar run' to record the first one!")
		return
	}

	fmt.Println("Standings")
	fmt.Println()
	fmt.Printf("  %-12s  %6s  %5s  %5s  %5s  %6s  %5s\n", "Logic", "Played", "Won", "Lost", "Drawn", "Kills", "Win%")
	fmt.Printf("  %-12s  %6s  %5s  %5s  %5s  %6s  %5s\n", "-----", "------", "---", "----", "-----", "-----", "----")
	for _, s := range stats {
		fmt.Printf("  %-12s  %6d  %5d  %5d  %5d  %6d  %5.1f\n",
			s.Logic, s.Matches, s.Wins, s.Losses, s.Draws, s.Kills, s.WinRate()*100)
	}

	recent, err := store.RecentMatches(statsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Recent matches")
	fmt.Println()
	for _, m := range recent {
		winner := m.WinnerLogic()
		if winner == "" {
			winner = "draw"
		}
		fmt.Printf("  %s  %s vs %s (%dv%d)  %-10s  %d:%d  %d ticks, %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.LogicA, m.LogicB, m.SizeA, m.SizeB,
			winner, m.KillsA, m.KillsB, m.Ticks, m.Reason)
		if m.Errors != "" {
			fmt.Printf("      errors: %s\n", m.Errors)
		}
	}
}
