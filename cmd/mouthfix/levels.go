package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels and your progress",
	Long: `Shows every level of the pack with its lock state and your best score.
Celebrities of locked levels stay hidden.`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	prog := rt.store.Progress()
	if rt.pack.Count() == 0 {
		fmt.Println("The level pack is empty.")
		return
	}

	// Calculate column widths
	nameLen := len("Celebrity")
	for _, lvl := range rt.pack.Levels {
		if prog.IsUnlocked(lvl.ID) && len(lvl.Celebrity) > nameLen {
			nameLen = len(lvl.Celebrity)
		}
	}

	fmt.Printf("Levels - %s\n", rt.store.DisplayName())
	fmt.Println()
	fmt.Printf("  %-5s  %-*s  %-6s  %s\n", "Level", nameLen, "Celebrity", "Status", "Best")
	fmt.Printf("  %-5s  %-*s  %-6s  %s\n", "-----", nameLen, "---------", "------", "----")

	for _, lvl := range rt.pack.Levels {
		name, status, best := "???", "locked", "-"
		if prog.IsUnlocked(lvl.ID) {
			name, status = lvl.Celebrity, "open"
		}
		if prog.IsCompleted(lvl.ID) {
			status = "fixed"
		}
		if score, ok := prog.BestScore(lvl.ID); ok {
			best = fmt.Sprintf("%d", score)
		}
		fmt.Printf("  %-5d  %-*s  %-6s  %s\n", lvl.ID, nameLen, name, status, best)
	}

	fmt.Println()
	fmt.Printf("Total score: %d  (high %d)\n", prog.TotalScore, prog.HighScore)
	fmt.Println("Run 'mouthfix play' to continue.")
}
