// mouthfix is a terminal game: pick the mouth that belongs to each
// celebrity's face.
//
// Usage:
//
//	mouthfix [play]            - Play (continues where you left off)
//	mouthfix levels            - List levels and your progress
//	mouthfix scores            - Show the leaderboard
//	mouthfix profile           - Show or change the player profile
//	mouthfix settings          - Show or change settings
//	mouthfix serve             - Run the HTTP leaderboard server
//	mouthfix ssh               - Serve the game over SSH
//
// Global flags:
//
//	--config <path>       - Config file (default: ~/.mouthfix/config.yaml)
//	--data-dir <path>     - Where profile, scores and logs live
//	--levels <path>       - Level pack YAML (default: built-in pack)
//	--leaderboard <url>   - Remote leaderboard server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig      string
	flagDataDir     string
	flagLevels      string
	flagLeaderboard string
	flagVerbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mouthfix",
	Short: "Fix the Mouth - match each celebrity with their mouth",
	Long: `Fix the Mouth is a terminal puzzle game. Every level shows a famous
face with the wrong mouth; pick the right one out of four before you
run out of lives.

Available commands:
  play      - Play the game
  levels    - Show levels and progress
  scores    - View the leaderboard
  profile   - Show, rename or reset the player
  settings  - Show or change settings
  serve     - Run the leaderboard server
  ssh       - Serve the game over SSH

Examples:
  mouthfix play
  mouthfix play --level 3
  mouthfix scores --limit 20
  mouthfix settings set audio.musicVolume 30
  mouthfix serve --addr :8420
  mouthfix play --leaderboard http://localhost:8420`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	Run:          runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory for profile, scores and logs")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to a level pack YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLeaderboard, "leaderboard", "", "Remote leaderboard URL (empty for local)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
}
