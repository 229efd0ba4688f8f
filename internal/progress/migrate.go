package progress

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// CurrentVersion is the document layout this package writes.
const CurrentVersion = 3

// ErrCorrupt is returned for stored data that is not a JSON object.
var ErrCorrupt = errors.New("progress: stored document is not a JSON object")

// migration rewrites a document from one version to the next.
type migration func(doc []byte) ([]byte, error)

// migrations[i] upgrades version i+1 to version i+2.
var migrations = []migration{
	migrateV1ToV2,
	migrateV2ToV3,
}

// ownedPaths are replaced wholesale on persist; stale keys under them are
// never merged back from the previous document.
var ownedPaths = map[string]bool{
	"progress.bestScores":      true,
	"progress.unlockedLevels":  true,
	"progress.completedLevels": true,
}

// documentVersion reads the version field. Documents without one predate
// versioning and count as version 1.
func documentVersion(doc []byte) int {
	v := gjson.GetBytes(doc, "version")
	if !v.Exists() || v.Int() < 1 {
		return 1
	}
	return int(v.Int())
}

// migrate upgrades doc to CurrentVersion and returns the upgraded document
// with the version it started at. Newer documents are returned unchanged.
func migrate(doc []byte) ([]byte, int, error) {
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, 0, ErrCorrupt
	}

	from := documentVersion(doc)
	for v := from; v < CurrentVersion; v++ {
		next, err := migrations[v-1](doc)
		if err != nil {
			return nil, from, fmt.Errorf("progress: migrate v%d to v%d: %w", v, v+1, err)
		}
		doc = next
	}
	return doc, from, nil
}

// moveKey moves the value at from to to, if present.
func moveKey(doc []byte, from, to string) ([]byte, error) {
	val := gjson.GetBytes(doc, from)
	if !val.Exists() {
		return doc, nil
	}
	doc, err := sjson.SetRawBytes(doc, to, []byte(val.Raw))
	if err != nil {
		return nil, err
	}
	return sjson.DeleteBytes(doc, from)
}

// v1 kept progress fields and the player at the top level.
func migrateV1ToV2(doc []byte) ([]byte, error) {
	moves := [][2]string{
		{"unlockedLevels", "progress.unlockedLevels"},
		{"completedLevels", "progress.completedLevels"},
		{"bestScores", "progress.bestScores"},
		{"totalScore", "progress.totalScore"},
		{"highScore", "progress.highScore"},
		{"playerId", "profile.playerId"},
		{"playerName", "profile.playerName"},
	}
	var err error
	for _, m := range moves {
		if doc, err = moveKey(doc, m[0], m[1]); err != nil {
			return nil, err
		}
	}
	return sjson.SetBytes(doc, "version", 2)
}

// v2 kept settings flat.
func migrateV2ToV3(doc []byte) ([]byte, error) {
	moves := [][2]string{
		{"settings.musicVolume", "settings.audio.musicVolume"},
		{"settings.sfxVolume", "settings.audio.sfxVolume"},
		{"settings.isMusicMuted", "settings.audio.isMusicMuted"},
		{"settings.isSfxMuted", "settings.audio.isSfxMuted"},
		{"settings.hapticsEnabled", "settings.haptics.enabled"},
		{"settings.hapticsIntensity", "settings.haptics.intensity"},
	}
	var err error
	for _, m := range moves {
		if doc, err = moveKey(doc, m[0], m[1]); err != nil {
			return nil, err
		}
	}
	return sjson.SetBytes(doc, "version", 3)
}

// mergeUnknown copies every field of prev that fresh does not have into
// fresh. Objects present in both are merged recursively; everything else in
// fresh wins.
func mergeUnknown(fresh, prev []byte) ([]byte, error) {
	if len(prev) == 0 {
		return fresh, nil
	}
	return mergeObject(fresh, gjson.ParseBytes(prev), "")
}

func mergeObject(fresh []byte, prev gjson.Result, prefix string) ([]byte, error) {
	var err error
	prev.ForEach(func(key, val gjson.Result) bool {
		path := prefix + gjson.Escape(key.String())
		if ownedPaths[path] {
			return true
		}

		cur := gjson.GetBytes(fresh, path)
		switch {
		case !cur.Exists():
			fresh, err = sjson.SetRawBytes(fresh, path, []byte(val.Raw))
		case cur.IsObject() && val.IsObject():
			fresh, err = mergeObject(fresh, val, path+".")
		}
		return err == nil
	})
	return fresh, err
}
