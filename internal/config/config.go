// Package config provides YAML-based configuration loading for mouthfix,
// with embedded defaults and environment overrides.
package config

import (
	"path/filepath"
	"time"
)

// Config contains all configuration for the game.
type Config struct {
	Gameplay    GameplayConfig    `yaml:"gameplay"`
	Haptics     HapticsConfig     `yaml:"haptics"`
	Audio       AudioConfig       `yaml:"audio"`
	Storage     StorageConfig     `yaml:"storage"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Levels      LevelsConfig      `yaml:"levels"`
}

// GameplayConfig defines session rules and choreography timings.
type GameplayConfig struct {
	InitialLives   int           `yaml:"initial_lives"   env:"MOUTHFIX_INITIAL_LIVES"`
	Points         []int         `yaml:"points"`          // Points by attempt; the last entry is the floor
	ShakeClear     time.Duration `yaml:"shake_clear"`     // Delay before a wrong pick can be retried
	CelebrateDelay time.Duration `yaml:"celebrate_delay"` // Delay between a correct pick and the confetti
	AutoAdvance    time.Duration `yaml:"auto_advance"`    // Delay before moving to the next level
}

// HapticsConfig defines vibration parameters.
type HapticsConfig struct {
	BaseDuration time.Duration `yaml:"base_duration"`
}

// AudioConfig defines synthesizer parameters.
type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"     env:"MOUTHFIX_AUDIO_ENABLED"`
	SampleRate int           `yaml:"sample_rate" env:"MOUTHFIX_SAMPLE_RATE"`
	Ramp       time.Duration `yaml:"ramp"`        // Volume change smoothing
	BGM        string        `yaml:"bgm"         env:"MOUTHFIX_BGM"` // WAV path or URL, empty for none
}

// StorageConfig defines where durable state lives.
type StorageConfig struct {
	Backend string `yaml:"backend"  env:"MOUTHFIX_STORAGE_BACKEND"` // "file" or "sqlite"
	DataDir string `yaml:"data_dir" env:"MOUTHFIX_DATA_DIR"`
}

// LeaderboardConfig defines the leaderboard collaborator.
type LeaderboardConfig struct {
	URL     string        `yaml:"url"     env:"MOUTHFIX_LEADERBOARD_URL"` // Empty for the local SQLite board
	Limit   int           `yaml:"limit"`
	Timeout time.Duration `yaml:"timeout"`
}

// LevelsConfig defines where the level pack is loaded from.
type LevelsConfig struct {
	Path string `yaml:"path" env:"MOUTHFIX_LEVELS"` // Empty for the embedded pack
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ProfilePath returns the JSON profile file inside the data directory.
func (c StorageConfig) ProfilePath() string {
	return filepath.Join(c.DataDir, "profile.json")
}

// DatabasePath returns the SQLite database inside the data directory.
func (c StorageConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "mouthfix.db")
}

// LogPath returns the log file used while the terminal UI owns the screen.
func (c StorageConfig) LogPath() string {
	return filepath.Join(c.DataDir, "mouthfix.log")
}
