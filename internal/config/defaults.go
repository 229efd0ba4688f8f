package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mouthfix.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
// It mirrors defaults/mouthfix.yaml and is used when the embedded copy
// cannot be parsed.
func Default() Config {
	return Config{
		Gameplay: GameplayConfig{
			InitialLives:   3,
			Points:         []int{100, 70, 40},
			ShakeClear:     400 * time.Millisecond,
			CelebrateDelay: 200 * time.Millisecond,
			AutoAdvance:    3 * time.Second,
		},
		Haptics: HapticsConfig{
			BaseDuration: 50 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Ramp:       100 * time.Millisecond,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			DataDir: "~/.mouthfix",
		},
		Leaderboard: LeaderboardConfig{
			Limit:   10,
			Timeout: 5 * time.Second,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
