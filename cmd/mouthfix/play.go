package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mouthfix/internal/assets"
	"github.com/vovakirdan/mouthfix/internal/audio"
	"github.com/vovakirdan/mouthfix/internal/platform/tui"
	"github.com/vovakirdan/mouthfix/internal/session"
)

var (
	flagLevel   int
	flagNoSound bool
	flagBell    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the game in the terminal. Without --level the menu opens and
"Continue" picks up at the first unlocked level you have not fixed.

Controls:
  1-4          pick a mouth
  arrows/enter move and pick
  m            mute
  r            retry after a game over
  esc          back to the menu
  q            quit

Logs are written to mouthfix.log in the data directory while playing.

Examples:
  mouthfix play
  mouthfix play --level 2
  mouthfix play --no-sound --bell`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVarP(&flagLevel, "level", "l", 0, "Start directly on this level (must be unlocked)")
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable audio")
	playCmd.Flags().BoolVar(&flagBell, "bell", false, "Ring the terminal bell for vibration feedback")
}

func runPlay(_ *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal")
		os.Exit(1)
	}

	// The UI owns the screen, so logs go to a file.
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.Storage.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	rt, err := setup(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	if flagLevel != 0 {
		if _, ok := rt.pack.ByID(flagLevel); !ok {
			fmt.Fprintf(os.Stderr, "Error: no level %d (the pack has %d)\n", flagLevel, rt.pack.Count())
			os.Exit(1)
		}
		if !rt.store.Progress().IsUnlocked(flagLevel) {
			fmt.Fprintf(os.Stderr, "Level %d is locked. Fix level %d first.\n", flagLevel, flagLevel-1)
			os.Exit(1)
		}
	}

	synth := audio.New(audio.SpeakerOutput{}, audio.Options{
		SampleRate: rt.cfg.Audio.SampleRate,
		Ramp:       rt.cfg.Audio.Ramp,
		Disabled:   flagNoSound || !rt.cfg.Audio.Enabled,
	}, rt.logger)
	synth.Init()
	defer synth.Close()

	deps := tui.Deps{
		Config:      rt.cfg,
		Store:       rt.store,
		Pack:        rt.pack,
		Preloader:   assets.NewPreloader(assets.NewSourceFetcher(rt.pack.FS), rt.logger),
		Synth:       synth,
		Leaderboard: rt.board,
		Logger:      rt.logger,
		StartLevel:  flagLevel,
	}
	if flagBell {
		deps.Vibrator = session.NewBellVibrator(os.Stdout)
	}

	rt.logger.Info("game started", "player", rt.store.DisplayName(), "level", flagLevel)
	if err := tui.Run(deps); err != nil {
		rt.logger.Error("game exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	rt.logger.Info("game ended", "total", rt.store.Progress().TotalScore)
}
