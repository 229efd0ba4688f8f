package progress

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

const v1Doc = `{
	"playerId": "legacy-id",
	"playerName": "Old Timer",
	"unlockedLevels": [1, 2, 3],
	"completedLevels": [1, 2],
	"bestScores": {"1": 100, "2": 40},
	"totalScore": 140,
	"highScore": 140,
	"settings": {
		"musicVolume": 30,
		"sfxVolume": 60,
		"isMusicMuted": true,
		"isSfxMuted": false,
		"hapticsEnabled": false
	},
	"lastPlayed": "2024-01-01"
}`

func TestDocumentVersion(t *testing.T) {
	tests := []struct {
		doc  string
		want int
	}{
		{`{}`, 1},
		{`{"version":0}`, 1},
		{`{"version":2}`, 2},
		{`{"version":3}`, 3},
		{`{"version":7}`, 7},
	}
	for _, tt := range tests {
		if got := documentVersion([]byte(tt.doc)); got != tt.want {
			t.Errorf("documentVersion(%s) = %d, want %d", tt.doc, got, tt.want)
		}
	}
}

func TestMigrateV1ToCurrent(t *testing.T) {
	out, from, err := migrate([]byte(v1Doc))
	if err != nil {
		t.Fatalf("migrate() failed: %v", err)
	}
	if from != 1 {
		t.Errorf("from = %d, want 1", from)
	}

	want := map[string]string{
		"version":                     "3",
		"profile.playerId":            "legacy-id",
		"progress.totalScore":         "140",
		"progress.bestScores.2":       "40",
		"settings.audio.musicVolume":  "30",
		"settings.audio.isMusicMuted": "true",
		"settings.haptics.enabled":    "false",
		"lastPlayed":                  "2024-01-01",
	}
	for path, v := range want {
		if got := gjson.GetBytes(out, path).String(); got != v {
			t.Errorf("%s = %q, want %q", path, got, v)
		}
	}

	for _, gone := range []string{"unlockedLevels", "playerId", "settings.musicVolume", "settings.hapticsEnabled"} {
		if gjson.GetBytes(out, gone).Exists() {
			t.Errorf("legacy key %s still present", gone)
		}
	}
}

func TestDecodeV1Document(t *testing.T) {
	st, _, err := decode([]byte(v1Doc))
	if err != nil {
		t.Fatalf("decode() failed: %v", err)
	}

	if st.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", st.Version, CurrentVersion)
	}
	if st.Profile != (Profile{PlayerID: "legacy-id", PlayerName: "Old Timer"}) {
		t.Errorf("Profile = %+v", st.Profile)
	}
	wantProgress := Progress{
		UnlockedLevels:  []int{1, 2, 3},
		CompletedLevels: []int{1, 2},
		BestScores:      map[int]int{1: 100, 2: 40},
		TotalScore:      140,
		HighScore:       140,
	}
	if !reflect.DeepEqual(st.Progress, wantProgress) {
		t.Errorf("Progress = %+v, want %+v", st.Progress, wantProgress)
	}

	wantSettings := DefaultSettings()
	wantSettings.Audio = AudioSettings{MusicVolume: 30, SFXVolume: 60, MusicMuted: true}
	wantSettings.Haptics.Enabled = false
	if st.Settings != wantSettings {
		t.Errorf("Settings = %+v, want %+v", st.Settings, wantSettings)
	}
}

func TestMigrateV2ToCurrent(t *testing.T) {
	doc := `{"version":2,"progress":{"completedLevels":[1]},"settings":{"sfxVolume":5}}`
	out, from, err := migrate([]byte(doc))
	if err != nil {
		t.Fatalf("migrate() failed: %v", err)
	}
	if from != 2 {
		t.Errorf("from = %d, want 2", from)
	}
	if got := gjson.GetBytes(out, "settings.audio.sfxVolume").Int(); got != 5 {
		t.Errorf("settings.audio.sfxVolume = %d, want 5", got)
	}
	if got := gjson.GetBytes(out, "progress.completedLevels.0").Int(); got != 1 {
		t.Errorf("progress.completedLevels.0 = %d, want 1", got)
	}
}

func TestMigrateNewerVersionUntouched(t *testing.T) {
	doc := `{"version":9,"settings":{"audio":{"musicVolume":11}},"future":true}`
	out, _, err := migrate([]byte(doc))
	if err != nil {
		t.Fatalf("migrate() failed: %v", err)
	}
	if string(out) != doc {
		t.Errorf("newer document rewritten: %s", out)
	}

	st, _, err := decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if st.Version != 9 || st.Settings.Audio.MusicVolume != 11 {
		t.Errorf("decoded = version %d music %d", st.Version, st.Settings.Audio.MusicVolume)
	}
}

func TestMigrateRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{"", "nope", "[]", "42"} {
		if _, _, err := migrate([]byte(doc)); !errors.Is(err, ErrCorrupt) {
			t.Errorf("migrate(%q) error = %v, want ErrCorrupt", doc, err)
		}
	}
}

func TestMergeUnknown(t *testing.T) {
	fresh := `{"a":1,"obj":{"x":1},"progress":{"bestScores":{}}}`
	prev := `{"a":2,"b":"keep","obj":{"x":9,"y":"keep"},"progress":{"bestScores":{"1":100}},"dotted.key":3}`

	out, err := mergeUnknown([]byte(fresh), []byte(prev))
	if err != nil {
		t.Fatalf("mergeUnknown() failed: %v", err)
	}

	tests := []struct {
		path   string
		want   string
		exists bool
	}{
		{"a", "1", true},
		{"b", "keep", true},
		{"obj.x", "1", true},
		{"obj.y", "keep", true},
		{`dotted\.key`, "3", true},
		{"progress.bestScores.1", "", false},
	}
	for _, tt := range tests {
		got := gjson.GetBytes(out, tt.path)
		if got.Exists() != tt.exists || got.String() != tt.want {
			t.Errorf("%s = %q (exists %v), want %q (exists %v)", tt.path, got.String(), got.Exists(), tt.want, tt.exists)
		}
	}
}
