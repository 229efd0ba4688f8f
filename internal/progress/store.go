package progress

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Store owns the player record. Every mutation is persisted immediately.
// When the backend fails the store keeps working in memory and reports
// Degraded.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	levelCount int
	logger     *log.Logger

	state    State
	raw      []byte // last stored document, source of unknown fields
	degraded bool
}

// NewStore returns a store over backend for a pack of levelCount levels.
// The store holds first-run defaults until Load is called.
func NewStore(backend Backend, levelCount int, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		backend:    backend,
		levelCount: levelCount,
		logger:     logger,
	}
	s.state = freshState()
	return s
}

func freshState() State {
	st := defaultState()
	st.Profile.PlayerID = uuid.NewString()
	return st
}

// Load reads the stored record, upgrading older layouts. Missing or corrupt
// data yields first-run defaults.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Read()
	switch {
	case errors.Is(err, ErrNotFound):
		s.state = freshState()
		s.raw = nil
		s.persist()
		return
	case err != nil:
		s.logger.Warn("progress: cannot read stored profile, continuing in memory", "error", err)
		s.state = freshState()
		s.raw = nil
		s.degraded = true
		return
	}

	st, migrated, err := decode(doc)
	if err != nil {
		s.logger.Warn("progress: stored profile unreadable, starting fresh", "error", err)
		s.state = freshState()
		s.raw = nil
		s.persist()
		return
	}
	if st.Profile.PlayerID == "" {
		st.Profile.PlayerID = uuid.NewString()
	}
	s.state = st
	s.raw = migrated
	if documentVersion(doc) != documentVersion(migrated) {
		s.logger.Info("progress: upgraded stored profile",
			"from", documentVersion(doc), "to", documentVersion(migrated))
		s.persist()
	}
}

// decode migrates doc and decodes it over the defaults. Values of the wrong
// type keep their defaults.
func decode(doc []byte) (State, []byte, error) {
	migrated, _, err := migrate(doc)
	if err != nil {
		return State{}, nil, err
	}

	st := defaultState()
	if err := json.Unmarshal(migrated, &st); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return State{}, nil, err
		}
	}

	st.Version = max(st.Version, CurrentVersion)
	st.Profile.PlayerName = cleanName(st.Profile.PlayerName)
	st.Progress.normalize()
	st.Settings.Audio.MusicVolume = ClampVolume(st.Settings.Audio.MusicVolume)
	st.Settings.Audio.SFXVolume = ClampVolume(st.Settings.Audio.SFXVolume)
	st.Settings.Haptics.Intensity = clampIntensity(st.Settings.Haptics.Intensity)
	return st, migrated, nil
}

// persist writes the current state. Callers hold s.mu.
func (s *Store) persist() {
	doc, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("progress: encode profile", "error", err)
		return
	}
	merged, err := mergeUnknown(doc, s.raw)
	if err != nil {
		s.logger.Warn("progress: dropping unknown stored fields", "error", err)
		merged = doc
	}
	s.raw = merged

	if s.degraded {
		return
	}
	if err := s.backend.Write(merged); err != nil {
		s.logger.Warn("progress: cannot save profile, continuing in memory", "error", err)
		s.degraded = true
	}
}

// Degraded reports whether the store has fallen back to memory only.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// State returns a copy of the whole record.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profile
}

func (s *Store) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Progress.Clone()
}

func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// SetPlayerName stores the trimmed, truncated name and returns it.
func (s *Store) SetPlayerName(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile.PlayerName = cleanName(name)
	s.persist()
	return s.state.Profile.PlayerName
}

// DisplayName returns the player name, or Player-XXXX built from the id when
// no name is set.
func (s *Store) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return displayName(s.state.Profile)
}

func displayName(p Profile) string {
	if p.PlayerName != "" {
		return p.PlayerName
	}
	id := strings.ReplaceAll(p.PlayerID, "-", "")
	if len(id) > 4 {
		id = id[:4]
	}
	return "Player-" + strings.ToUpper(id)
}

// UpdateSetting sets one leaf setting. A value of the wrong type returns
// ErrSettingType and leaves the settings unchanged.
func (s *Store) UpdateSetting(key SettingKey, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Settings
	if err := next.apply(key, value); err != nil {
		return err
	}
	s.state.Settings = next
	s.persist()
	return nil
}

// UpdateSettings replaces the groups set in patch.
func (s *Store) UpdateSettings(patch SettingsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.applyTo(&s.state.Settings)
	s.persist()
}

// CompleteLevel records a completion of levelID with score and returns the
// updated progress. Repeating a completion never lowers anything.
func (s *Store) CompleteLevel(levelID, score int) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	if levelID < 1 {
		s.logger.Warn("progress: ignoring completion of invalid level", "level", levelID)
		return s.state.Progress.Clone()
	}

	p := s.state.Progress.Clone()
	p.CompletedLevels = insertSorted(p.CompletedLevels, levelID)
	if levelID+1 <= s.levelCount {
		p.UnlockedLevels = insertSorted(p.UnlockedLevels, levelID+1)
	}
	if best, ok := p.BestScores[levelID]; !ok || score > best {
		p.BestScores[levelID] = score
	}
	p.TotalScore = p.sumBest()
	p.HighScore = max(p.HighScore, p.TotalScore)

	s.state.Progress = p
	s.persist()
	return p.Clone()
}

// ResetProgress returns progress to first-run values. Profile and settings
// are kept. It reports whether the reset reached durable storage.
func (s *Store) ResetProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Progress = DefaultProgress()
	s.persist()
	return !s.degraded
}

// HardReset erases the stored record and starts over with a new player.
func (s *Store) HardReset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		if err := s.backend.Clear(); err != nil {
			s.logger.Warn("progress: cannot clear stored profile", "error", err)
		}
	}
	s.state = freshState()
	s.raw = nil
	s.persist()
}
