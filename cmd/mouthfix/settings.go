package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mouthfix/internal/progress"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show settings",
	Long: `Show every setting with its current value, or change one.

Keys:
  audio.musicVolume, audio.sfxVolume            0-100
  audio.isMusicMuted, audio.isSfxMuted          true/false
  haptics.enabled                               true/false
  haptics.intensity                             0.0-1.0
  accessibility.screenReaderMode                true/false
  accessibility.highContrast                    true/false
  accessibility.reduceMotion                    true/false

Examples:
  mouthfix settings
  mouthfix settings set audio.musicVolume 30
  mouthfix settings set accessibility.reduceMotion true`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettings(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	st := rt.store.Settings()
	for _, key := range progress.SettingKeys() {
		v, _ := st.Get(key)
		fmt.Printf("  %-32s %v\n", key, v)
	}
}

func runSettingsSet(_ *cobra.Command, args []string) {
	rt := mustSetup()
	defer rt.Close()

	key, err := progress.ParseSettingKey(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'mouthfix settings' to see the keys.")
		os.Exit(1)
	}
	value, err := progress.ParseSettingValue(key, args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := rt.store.UpdateSetting(key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	got, _ := rt.store.Settings().Get(key)
	fmt.Printf("%s = %v\n", key, got)
}
