package progress

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownSetting is returned for keys outside the known set.
	ErrUnknownSetting = errors.New("progress: unknown setting")
	// ErrSettingType is returned when a value does not match the key's kind.
	ErrSettingType = errors.New("progress: wrong value type for setting")
)

// SettingKey names one leaf field of Settings.
type SettingKey int

const (
	SettingMusicVolume SettingKey = iota + 1
	SettingSFXVolume
	SettingMusicMuted
	SettingSFXMuted
	SettingHapticsEnabled
	SettingHapticsIntensity
	SettingScreenReaderMode
	SettingHighContrast
	SettingReduceMotion
)

type settingKind int

const (
	kindVolume settingKind = iota
	kindBool
	kindIntensity
)

type settingDef struct {
	name     string
	kind     settingKind
	setInt   func(*Settings, int)
	setBool  func(*Settings, bool)
	setFloat func(*Settings, float64)
	get      func(Settings) any
}

var settingDefs = map[SettingKey]settingDef{
	SettingMusicVolume: {
		name:   "audio.musicVolume",
		kind:   kindVolume,
		setInt: func(s *Settings, v int) { s.Audio.MusicVolume = v },
		get:    func(s Settings) any { return s.Audio.MusicVolume },
	},
	SettingSFXVolume: {
		name:   "audio.sfxVolume",
		kind:   kindVolume,
		setInt: func(s *Settings, v int) { s.Audio.SFXVolume = v },
		get:    func(s Settings) any { return s.Audio.SFXVolume },
	},
	SettingMusicMuted: {
		name:    "audio.isMusicMuted",
		kind:    kindBool,
		setBool: func(s *Settings, v bool) { s.Audio.MusicMuted = v },
		get:     func(s Settings) any { return s.Audio.MusicMuted },
	},
	SettingSFXMuted: {
		name:    "audio.isSfxMuted",
		kind:    kindBool,
		setBool: func(s *Settings, v bool) { s.Audio.SFXMuted = v },
		get:     func(s Settings) any { return s.Audio.SFXMuted },
	},
	SettingHapticsEnabled: {
		name:    "haptics.enabled",
		kind:    kindBool,
		setBool: func(s *Settings, v bool) { s.Haptics.Enabled = v },
		get:     func(s Settings) any { return s.Haptics.Enabled },
	},
	SettingHapticsIntensity: {
		name:     "haptics.intensity",
		kind:     kindIntensity,
		setFloat: func(s *Settings, v float64) { s.Haptics.Intensity = v },
		get:      func(s Settings) any { return s.Haptics.Intensity },
	},
	SettingScreenReaderMode: {
		name:    "accessibility.screenReaderMode",
		kind:    kindBool,
		setBool: func(s *Settings, v bool) { s.Accessibility.ScreenReaderMode = v },
		get:     func(s Settings) any { return s.Accessibility.ScreenReaderMode },
	},
	SettingHighContrast: {
		name:    "accessibility.highContrast",
		kind:    kindBool,
		setBool: func(s *Settings, v bool) { s.Accessibility.HighContrast = v },
		get:     func(s Settings) any { return s.Accessibility.HighContrast },
	},
	SettingReduceMotion: {
		name:    "accessibility.reduceMotion",
		kind:    kindBool,
		setBool: func(s *Settings, v bool) { s.Accessibility.ReduceMotion = v },
		get:     func(s Settings) any { return s.Accessibility.ReduceMotion },
	},
}

// SettingKeys returns every known key in display order.
func SettingKeys() []SettingKey {
	return []SettingKey{
		SettingMusicVolume,
		SettingSFXVolume,
		SettingMusicMuted,
		SettingSFXMuted,
		SettingHapticsEnabled,
		SettingHapticsIntensity,
		SettingScreenReaderMode,
		SettingHighContrast,
		SettingReduceMotion,
	}
}

// String returns the dotted name, e.g. "audio.musicVolume".
func (k SettingKey) String() string {
	if def, ok := settingDefs[k]; ok {
		return def.name
	}
	return fmt.Sprintf("SettingKey(%d)", int(k))
}

// IsBool reports whether the setting holds a flag.
func (k SettingKey) IsBool() bool {
	return settingDefs[k].kind == kindBool
}

// ParseSettingKey maps a dotted name to its key.
func ParseSettingKey(name string) (SettingKey, error) {
	for key, def := range settingDefs {
		if def.name == name {
			return key, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
}

// ParseSettingValue converts a command-line string to the value type the
// key expects.
func ParseSettingValue(key SettingKey, raw string) (any, error) {
	def, ok := settingDefs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSetting, key)
	}
	switch def.kind {
	case kindVolume:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants an integer 0-100: %v", ErrSettingType, def.name, err)
		}
		return v, nil
	case kindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants true or false: %v", ErrSettingType, def.name, err)
		}
		return v, nil
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants a number 0.0-1.0: %v", ErrSettingType, def.name, err)
		}
		return v, nil
	}
}

// Get returns the current value of a leaf setting.
func (s Settings) Get(key SettingKey) (any, bool) {
	def, ok := settingDefs[key]
	if !ok {
		return nil, false
	}
	return def.get(s), true
}

// apply writes one leaf on s. Volumes clamp to [0,100], intensity to [0,1].
func (s *Settings) apply(key SettingKey, value any) error {
	def, ok := settingDefs[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownSetting, key)
	}

	switch def.kind {
	case kindVolume:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %s wants int, got %T", ErrSettingType, def.name, value)
		}
		def.setInt(s, ClampVolume(v))
	case kindBool:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrSettingType, def.name, value)
		}
		def.setBool(s, v)
	case kindIntensity:
		var v float64
		switch n := value.(type) {
		case float64:
			v = n
		case int:
			v = float64(n)
		default:
			return fmt.Errorf("%w: %s wants float64, got %T", ErrSettingType, def.name, value)
		}
		def.setFloat(s, clampIntensity(v))
	}
	return nil
}

// SettingsPatch replaces whole settings groups; nil groups are left alone.
type SettingsPatch struct {
	Audio         *AudioSettings
	Haptics       *HapticsSettings
	Accessibility *AccessibilitySettings
}

func (p SettingsPatch) applyTo(s *Settings) {
	if p.Audio != nil {
		s.Audio = *p.Audio
		s.Audio.MusicVolume = ClampVolume(s.Audio.MusicVolume)
		s.Audio.SFXVolume = ClampVolume(s.Audio.SFXVolume)
	}
	if p.Haptics != nil {
		s.Haptics = *p.Haptics
		s.Haptics.Intensity = clampIntensity(s.Haptics.Intensity)
	}
	if p.Accessibility != nil {
		s.Accessibility = *p.Accessibility
	}
}

// ClampVolume restricts a volume to [0, 100].
func ClampVolume(v int) int {
	return max(0, min(100, v))
}

func clampIntensity(v float64) float64 {
	return max(0, min(1, v))
}
