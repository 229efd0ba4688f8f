package progress

import (
	"errors"
	"testing"
)

func TestParseSettingKey(t *testing.T) {
	for _, key := range SettingKeys() {
		got, err := ParseSettingKey(key.String())
		if err != nil || got != key {
			t.Errorf("ParseSettingKey(%q) = %v, %v", key.String(), got, err)
		}
	}
	if _, err := ParseSettingKey("audio.volume"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("unknown name error = %v, want ErrUnknownSetting", err)
	}
	if len(SettingKeys()) != 9 {
		t.Errorf("len(SettingKeys()) = %d, want 9", len(SettingKeys()))
	}
}

func TestParseSettingValue(t *testing.T) {
	tests := []struct {
		key     SettingKey
		raw     string
		want    any
		wantErr bool
	}{
		{SettingMusicVolume, "40", 40, false},
		{SettingMusicVolume, "forty", nil, true},
		{SettingSFXMuted, "true", true, false},
		{SettingReduceMotion, "0", false, false},
		{SettingHighContrast, "maybe", nil, true},
		{SettingHapticsIntensity, "0.25", 0.25, false},
		{SettingHapticsIntensity, "strong", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseSettingValue(tt.key, tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSettingValue(%v, %q) error = %v, wantErr %v", tt.key, tt.raw, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrSettingType) {
				t.Errorf("error %v should wrap ErrSettingType", err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSettingValue(%v, %q) = %v, want %v", tt.key, tt.raw, got, tt.want)
		}
	}
}

func TestSettingsApplyLeavesOtherFields(t *testing.T) {
	s := DefaultSettings()
	if err := s.apply(SettingScreenReaderMode, true); err != nil {
		t.Fatal(err)
	}
	want := DefaultSettings()
	want.Accessibility.ScreenReaderMode = true
	if s != want {
		t.Errorf("settings = %+v, want %+v", s, want)
	}
}

func TestIntensityAcceptsInt(t *testing.T) {
	s := DefaultSettings()
	if err := s.apply(SettingHapticsIntensity, 0); err != nil {
		t.Fatalf("apply(int 0) failed: %v", err)
	}
	if s.Haptics.Intensity != 0 {
		t.Errorf("Intensity = %v, want 0", s.Haptics.Intensity)
	}
}
