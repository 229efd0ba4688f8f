package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.mouthfix/config.yaml -> ./configs/mouthfix.yaml -> embedded default.
// Values missing from the chosen file keep their defaults. MOUTHFIX_*
// environment variables are applied last.
func Load(customPath string) (Config, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := Default()
			if err := yaml.Unmarshal(data, &candidate); err == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/mouthfix.yaml"); err == nil {
		candidate := Default()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Validate reports configuration values the game cannot run with.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown storage backend %q (want %q or %q)",
			c.Storage.Backend, BackendFile, BackendSQLite)
	}
	for _, p := range c.Gameplay.Points {
		if p < 0 {
			return fmt.Errorf("config: points must not be negative, got %d", p)
		}
	}
	return nil
}

// normalize replaces unusable zero values with defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Gameplay.InitialLives <= 0 {
		c.Gameplay.InitialLives = def.Gameplay.InitialLives
	}
	if len(c.Gameplay.Points) == 0 {
		c.Gameplay.Points = def.Gameplay.Points
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Leaderboard.Limit <= 0 {
		c.Leaderboard.Limit = def.Leaderboard.Limit
	}
	if c.Leaderboard.Timeout <= 0 {
		c.Leaderboard.Timeout = def.Leaderboard.Timeout
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = def.Storage.DataDir
	}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mouthfix", filename)
}
