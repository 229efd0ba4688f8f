// Package progress owns the durable player record: profile, level progress
// and settings, stored as one versioned JSON document.
package progress

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest player name kept, in runes.
const MaxNameLength = 20

// Profile identifies the player.
type Profile struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Progress is the durable per-level record.
// UnlockedLevels and CompletedLevels are kept sorted and free of duplicates.
type Progress struct {
	UnlockedLevels  []int       `json:"unlockedLevels"`
	CompletedLevels []int       `json:"completedLevels"`
	BestScores      map[int]int `json:"bestScores"`
	TotalScore      int         `json:"totalScore"`
	HighScore       int         `json:"highScore"`
}

// AudioSettings holds bus volumes (0-100) and mute flags.
type AudioSettings struct {
	MusicVolume int  `json:"musicVolume"`
	SFXVolume   int  `json:"sfxVolume"`
	MusicMuted  bool `json:"isMusicMuted"`
	SFXMuted    bool `json:"isSfxMuted"`
}

// HapticsSettings controls vibration feedback.
type HapticsSettings struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"` // 0.0-1.0
}

// AccessibilitySettings holds display preferences.
type AccessibilitySettings struct {
	ScreenReaderMode bool `json:"screenReaderMode"`
	HighContrast     bool `json:"highContrast"`
	ReduceMotion     bool `json:"reduceMotion"`
}

// Settings groups every user preference.
type Settings struct {
	Audio         AudioSettings         `json:"audio"`
	Haptics       HapticsSettings       `json:"haptics"`
	Accessibility AccessibilitySettings `json:"accessibility"`
}

// State is the whole persisted document.
type State struct {
	Version  int      `json:"version"`
	Profile  Profile  `json:"profile"`
	Progress Progress `json:"progress"`
	Settings Settings `json:"settings"`
}

// DefaultProgress returns first-run progress: only level 1 unlocked.
func DefaultProgress() Progress {
	return Progress{
		UnlockedLevels:  []int{1},
		CompletedLevels: []int{},
		BestScores:      map[int]int{},
	}
}

// DefaultSettings returns first-run settings.
func DefaultSettings() Settings {
	return Settings{
		Audio: AudioSettings{
			MusicVolume: 50,
			SFXVolume:   70,
		},
		Haptics: HapticsSettings{
			Enabled:   true,
			Intensity: 1.0,
		},
	}
}

func defaultState() State {
	return State{
		Version:  CurrentVersion,
		Progress: DefaultProgress(),
		Settings: DefaultSettings(),
	}
}

// Clone returns a deep copy; the store never hands out shared slices or maps.
func (p Progress) Clone() Progress {
	out := p
	out.UnlockedLevels = slices.Clone(p.UnlockedLevels)
	out.CompletedLevels = slices.Clone(p.CompletedLevels)
	out.BestScores = maps.Clone(p.BestScores)
	if out.UnlockedLevels == nil {
		out.UnlockedLevels = []int{}
	}
	if out.CompletedLevels == nil {
		out.CompletedLevels = []int{}
	}
	if out.BestScores == nil {
		out.BestScores = map[int]int{}
	}
	return out
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Progress = s.Progress.Clone()
	return out
}

// IsUnlocked reports whether the level can be played.
func (p Progress) IsUnlocked(levelID int) bool {
	_, ok := slices.BinarySearch(p.UnlockedLevels, levelID)
	return ok
}

// IsCompleted reports whether the level was completed at least once.
func (p Progress) IsCompleted(levelID int) bool {
	_, ok := slices.BinarySearch(p.CompletedLevels, levelID)
	return ok
}

// BestScore returns the best score for a level and whether one exists.
func (p Progress) BestScore(levelID int) (int, bool) {
	score, ok := p.BestScores[levelID]
	return score, ok
}

// sumBest recomputes the total from the best scores.
func (p Progress) sumBest() int {
	total := 0
	for _, score := range p.BestScores {
		total += score
	}
	return total
}

// normalize restores the set invariants after decoding arbitrary input.
func (p *Progress) normalize() {
	p.UnlockedLevels = sortedSet(p.UnlockedLevels)
	p.CompletedLevels = sortedSet(p.CompletedLevels)
	if p.BestScores == nil {
		p.BestScores = map[int]int{}
	}
	if !p.IsUnlocked(1) {
		p.UnlockedLevels = insertSorted(p.UnlockedLevels, 1)
	}
}

func sortedSet(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []int{}
	}
	return out
}

func insertSorted(set []int, v int) []int {
	i, found := slices.BinarySearch(set, v)
	if found {
		return set
	}
	return slices.Insert(set, i, v)
}

// cleanName trims the name and truncates it to MaxNameLength runes.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxNameLength])
}
