// Package session is the per-level play state machine: lives, attempts,
// scoring and the timed choreography that follows each pick.
package session

import (
	"time"

	"github.com/vovakirdan/mouthfix/internal/level"
	"github.com/vovakirdan/mouthfix/internal/progress"
)

// Config holds the session rules.
type Config struct {
	InitialLives   int
	Points         []int // by attempt; the last entry applies to every later attempt
	ShakeClear     time.Duration
	CelebrateDelay time.Duration
	AutoAdvance    time.Duration
}

// DefaultConfig returns the standard rules: three lives, 100/70/40 points.
func DefaultConfig() Config {
	return Config{
		InitialLives:   3,
		Points:         []int{100, 70, 40},
		ShakeClear:     400 * time.Millisecond,
		CelebrateDelay: 200 * time.Millisecond,
		AutoAdvance:    3 * time.Second,
	}
}

// Points returns the score for a correct pick on the given 1-based attempt.
func Points(attempt int, table []int) int {
	if attempt < 1 || len(table) == 0 {
		return 0
	}
	return table[min(attempt, len(table))-1]
}

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingSelection
	PhaseLevelComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingSelection:
		return "awaiting-selection"
	case PhaseLevelComplete:
		return "level-complete"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Recorder receives completed levels. *progress.Store implements it.
type Recorder interface {
	CompleteLevel(levelID, score int) progress.Progress
}

// Sounds plays the gameplay cues. *audio.Synth implements it.
type Sounds interface {
	PlayCorrect() bool
	PlayWrong() bool
	PlayLevelComplete() bool
	PlayGameOver() bool
}

// State is a snapshot of a session.
type State struct {
	Phase      Phase
	Index      int // level index in the pack
	Level      level.Level
	Score      int
	Lives      int
	Attempts   int
	Selected   string // option picked last, cleared after the shake
	Shaking    bool
	Complete   bool
	GameOver   bool
	Generation uint64
}

// Outcome describes the result of a pick.
type Outcome struct {
	Ignored   bool
	Correct   bool
	Points    int
	LivesLeft int
	GameOver  bool
	Progress  progress.Progress // only set when Correct
	Tasks     []Task            // deferred follow-ups to schedule
}

// Session owns the play state of the active level. It is not safe for
// concurrent use; the UI event loop drives it.
type Session struct {
	cfg      Config
	recorder Recorder
	sounds   Sounds
	haptics  *Haptics

	entered    bool
	index      int
	level      level.Level
	score      int
	lives      int
	attempts   int
	selected   string
	shaking    bool
	complete   bool
	gameOver   bool
	generation uint64
}

// New returns an idle session. sounds and haptics may be nil.
func New(cfg Config, recorder Recorder, sounds Sounds, haptics *Haptics) *Session {
	if cfg.InitialLives <= 0 {
		cfg.InitialLives = DefaultConfig().InitialLives
	}
	if len(cfg.Points) == 0 {
		cfg.Points = DefaultConfig().Points
	}
	s := &Session{cfg: cfg, recorder: recorder, sounds: sounds, haptics: haptics}
	s.Reset()
	return s
}

// Enter starts a fresh attempt at the level at index.
func (s *Session) Enter(index int, lvl level.Level) {
	s.entered = true
	s.index = index
	s.level = lvl
	s.Reset()
}

// Reset restores lives and clears score, attempts and flags. Tasks issued
// before the reset become stale.
func (s *Session) Reset() {
	s.score = 0
	s.lives = s.cfg.InitialLives
	s.attempts = 0
	s.selected = ""
	s.shaking = false
	s.complete = false
	s.gameOver = false
	s.generation++
}

// Phase returns the coarse state.
func (s *Session) Phase() Phase {
	switch {
	case !s.entered:
		return PhaseIdle
	case s.complete:
		return PhaseLevelComplete
	case s.gameOver:
		return PhaseGameOver
	default:
		return PhaseAwaitingSelection
	}
}

// State returns a snapshot.
func (s *Session) State() State {
	return State{
		Phase:      s.Phase(),
		Index:      s.index,
		Level:      s.level,
		Score:      s.score,
		Lives:      s.lives,
		Attempts:   s.attempts,
		Selected:   s.selected,
		Shaking:    s.shaking,
		Complete:   s.complete,
		GameOver:   s.gameOver,
		Generation: s.generation,
	}
}

// Select handles a pick. Picks are ignored before a level is entered and
// after it is complete or lost.
func (s *Session) Select(optionID string) Outcome {
	if !s.entered || s.complete || s.gameOver {
		return Outcome{Ignored: true, LivesLeft: s.lives, GameOver: s.gameOver}
	}

	s.attempts++
	s.selected = optionID

	if s.level.IsCorrect(optionID) {
		points := Points(s.attempts, s.cfg.Points)
		s.score += points
		s.complete = true

		var prog progress.Progress
		if s.recorder != nil {
			prog = s.recorder.CompleteLevel(s.level.ID, points)
		}
		if s.sounds != nil {
			s.sounds.PlayCorrect()
		}
		s.haptics.Vibrate(HapticMedium)

		return Outcome{
			Correct:   true,
			Points:    points,
			LivesLeft: s.lives,
			Progress:  prog,
			Tasks: []Task{
				s.task(TaskCelebrate, s.cfg.CelebrateDelay),
				s.task(TaskAutoAdvance, s.cfg.AutoAdvance),
			},
		}
	}

	s.shaking = true
	s.lives--
	if s.sounds != nil {
		s.sounds.PlayWrong()
	}
	s.haptics.Vibrate(HapticLight)

	if s.lives <= 0 {
		s.lives = 0
		s.gameOver = true
		if s.sounds != nil {
			s.sounds.PlayGameOver()
		}
		s.haptics.Vibrate(HapticStrong)
	}

	return Outcome{
		LivesLeft: s.lives,
		GameOver:  s.gameOver,
		Tasks:     []Task{s.task(TaskShakeClear, s.cfg.ShakeClear)},
	}
}
