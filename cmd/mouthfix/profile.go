package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var flagYes bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the player profile",
	Long: `Show the player profile, rename the player or reset progress.

Examples:
  mouthfix profile
  mouthfix profile name "Ada"
  mouthfix profile reset
  mouthfix profile hard-reset --yes`,
	Args: cobra.NoArgs,
	Run:  runProfile,
}

var profileNameCmd = &cobra.Command{
	Use:   "name <name>",
	Short: "Set the leaderboard name",
	Args:  cobra.ExactArgs(1),
	Run:   runProfileName,
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget completed levels and scores, keep name and settings",
	Args:  cobra.NoArgs,
	Run:   runProfileReset,
}

var profileHardResetCmd = &cobra.Command{
	Use:   "hard-reset",
	Short: "Erase the whole profile, including name and settings",
	Args:  cobra.NoArgs,
	Run:   runProfileHardReset,
}

func init() {
	profileCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	profileCmd.AddCommand(profileNameCmd, profileResetCmd, profileHardResetCmd)
}

func runProfile(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	p := rt.store.Profile()
	prog := rt.store.Progress()
	fmt.Printf("Player:    %s\n", rt.store.DisplayName())
	fmt.Printf("Player ID: %s\n", p.PlayerID)
	fmt.Printf("Fixed:     %d/%d levels\n", len(prog.CompletedLevels), rt.pack.Count())
	fmt.Printf("Unlocked:  %v\n", prog.UnlockedLevels)
	fmt.Printf("Score:     %d (high %d)\n", prog.TotalScore, prog.HighScore)
	if rt.store.Degraded() {
		fmt.Println()
		fmt.Println("Warning: the profile could not be read or saved; changes will not persist.")
	}
}

func runProfileName(_ *cobra.Command, args []string) {
	rt := mustSetup()
	defer rt.Close()

	name := rt.store.SetPlayerName(args[0])
	if name == "" {
		fmt.Printf("Name cleared; playing as %s.\n", rt.store.DisplayName())
		return
	}
	fmt.Printf("Name set to %s.\n", name)
}

// confirm asks a yes/no question on stdin unless --yes was given.
func confirm(question string) bool {
	if flagYes {
		return true
	}
	fmt.Printf("%s [y/N] ", question)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func runProfileReset(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	if !confirm("Forget every fixed level and score?") {
		fmt.Println("Cancelled.")
		return
	}
	if !rt.store.ResetProgress() {
		fmt.Fprintln(os.Stderr, "Error: progress was reset in memory but could not be saved")
		os.Exit(1)
	}
	fmt.Println("Progress reset.")
}

func runProfileHardReset(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	if !confirm("Erase name, progress and settings?") {
		fmt.Println("Cancelled.")
		return
	}
	rt.store.HardReset()
	fmt.Println("Profile erased.")
}
