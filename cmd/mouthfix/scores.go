package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mouthfix/internal/leaderboard"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top scores. With --leaderboard the remote server is asked;
otherwise the local database is used.

Examples:
  mouthfix scores
  mouthfix scores --limit 25
  mouthfix scores --leaderboard http://scores.example.com`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Number of entries (default from config)")
}

func runScores(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	limit := flagLimit
	if limit <= 0 {
		limit = rt.cfg.Leaderboard.Limit
	}

	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Leaderboard.Timeout)
	defer cancel()
	entries, err := rt.board.Top(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard")
	if fb, ok := rt.board.(*leaderboard.FallbackClient); ok && fb.Offline() {
		fmt.Println("(server unreachable, nothing to show offline)")
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mouthfix play' to set the first score!")
		return
	}

	nameLen := 20
	showDate := true
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < 60 {
		nameLen, showDate = 12, false
	}

	me := strings.TrimSpace(rt.store.Profile().PlayerName)
	fmt.Printf("  %-4s  %-*s  %6s  %5s", "Rank", nameLen, "Player", "Score", "Fixed")
	if showDate {
		fmt.Printf("  %s", "Date")
	}
	fmt.Println()

	for i, e := range entries {
		marker := " "
		if me != "" && strings.EqualFold(e.Name, me) {
			marker = "*"
		}
		name := e.Name
		if r := []rune(name); len(r) > nameLen {
			name = string(r[:nameLen-1]) + "."
		}
		fmt.Printf("%s %-4d  %-*s  %6d  %5d", marker, i+1, nameLen, name, e.Score, e.LevelsCompleted)
		if showDate {
			fmt.Printf("  %s", e.Timestamp.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}
}
