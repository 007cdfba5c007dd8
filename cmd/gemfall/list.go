package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfall/internal/games/gemfall"
	"github.com/vovakirdan/gemfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the game modes and campaign levels",
	Long:  `Shows the registered game modes and the campaign levels from the active config.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Printf("Campaign levels (%d):\n", gemfall.LevelCount())
	for i, name := range gemfall.LevelNames() {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}

	fmt.Println()
	fmt.Println("Run 'gemfall play [campaign|endless]' to play.")
}
