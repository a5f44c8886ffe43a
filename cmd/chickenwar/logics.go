package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-war/internal/registry"
)

var logicsCmd = &cobra.Command{
	Use:   "logics",
	Short: "List all registered logics",
	Long:  `Shows the team logics that can be used with --a and --b.`,
	Run:   runLogics,
}

func runLogics(cmd *cobra.Command, args []string) {
	logics := registry.List()

	if len(logics) == 0 {
		fmt.Println("No logics available.")
		return
	}

	fmt.Println("Available logics:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range logics {
		if len(l.Name) > maxNameLen {
			maxNameLen = len(l.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, l := range logics {
		fmt.Printf("  %-*s  %s\n", maxNameLen, l.Name, l.Description)
	}

	fmt.Println()
	fmt.Println("Run 'chickenwar run --a <name> --b <name>' to play a match.")
}
