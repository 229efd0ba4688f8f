// Package audio synthesizes the game's sound effects and plays background
// music through three buses: master, music and sfx.
package audio

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
)

// Status is the lifecycle state of a Synth.
type Status int

const (
	StatusUninitialized Status = iota
	StatusReady
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusReady:
		return "ready"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Options configures a Synth.
type Options struct {
	SampleRate int           // defaults to 44100
	Ramp       time.Duration // volume smoothing, defaults to 100ms
	Disabled   bool          // never open the device
	HTTPClient *http.Client  // used to fetch remote music
}

// State is the user-facing volume and mute state.
type State struct {
	MusicVolume int
	SFXVolume   int
	MusicMuted  bool
	SFXMuted    bool
}

// DefaultState matches the first-run settings.
func DefaultState() State {
	return State{MusicVolume: 50, SFXVolume: 70}
}

// Synth renders cues and music. All methods are safe for concurrent use and
// are silent no-ops unless the synth is ready.
type Synth struct {
	mu     sync.Mutex
	out    Output
	logger *log.Logger
	rate   beep.SampleRate
	ramp   time.Duration
	client *http.Client

	status Status
	state  State
	master *bus
	music  *bus
	sfx    *bus

	bgm    *beep.Ctrl
	bgmGen int
}

// New returns an uninitialized synth playing into out.
func New(out Output, opts Options, logger *log.Logger) *Synth {
	if logger == nil {
		logger = log.Default()
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.Ramp <= 0 {
		opts.Ramp = 100 * time.Millisecond
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	s := &Synth{
		out:    out,
		logger: logger,
		rate:   beep.SampleRate(opts.SampleRate),
		ramp:   opts.Ramp,
		client: opts.HTTPClient,
		state:  DefaultState(),
		master: newBus(1),
	}
	s.music = newBus(s.musicGain())
	s.sfx = newBus(s.sfxGain())
	if opts.Disabled || out == nil {
		s.status = StatusDisabled
	}
	return s
}

// Init opens the output device. It is idempotent. When the device cannot be
// opened the synth is disabled for good.
func (s *Synth) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusUninitialized {
		return
	}
	if err := s.out.Init(s.rate, s.rate.N(100*time.Millisecond)); err != nil {
		s.logger.Warn("audio: output unavailable, sound disabled", "error", err)
		s.status = StatusDisabled
		return
	}

	s.music.setGain(s.musicGain(), 0)
	s.sfx.setGain(s.sfxGain(), 0)
	s.master.add(s.music)
	s.master.add(s.sfx)
	s.out.Play(s.master)
	s.status = StatusReady
	s.logger.Debug("audio: ready", "rate", int(s.rate))
}

// Close stops all sound and releases the device.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusReady {
		return
	}
	s.out.Lock()
	s.music.clear()
	s.sfx.clear()
	s.out.Unlock()
	s.out.Close()
	s.bgm = nil
	s.status = StatusDisabled
}

// Status returns the lifecycle state.
func (s *Synth) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Ready reports whether sound can play.
func (s *Synth) Ready() bool {
	return s.Status() == StatusReady
}

func (s *Synth) musicGain() float64 {
	if s.state.MusicMuted {
		return 0
	}
	return float64(s.state.MusicVolume) / 100
}

func (s *Synth) sfxGain() float64 {
	if s.state.SFXMuted {
		return 0
	}
	return float64(s.state.SFXVolume) / 100
}

// applyGains ramps both buses to the current state. Callers hold s.mu.
func (s *Synth) applyGains() {
	if s.status != StatusReady {
		s.music.setGain(s.musicGain(), 0)
		s.sfx.setGain(s.sfxGain(), 0)
		return
	}
	ramp := s.rate.N(s.ramp)
	s.out.Lock()
	s.music.setGain(s.musicGain(), ramp)
	s.sfx.setGain(s.sfxGain(), ramp)
	s.out.Unlock()
}

func clampVolume(v int) int {
	return max(0, min(100, v))
}

// SetMusicVolume sets the music volume (0-100).
func (s *Synth) SetMusicVolume(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MusicVolume = clampVolume(v)
	s.applyGains()
}

// SetSFXVolume sets the effects volume (0-100).
func (s *Synth) SetSFXVolume(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SFXVolume = clampVolume(v)
	s.applyGains()
}

// ToggleMusicMute flips the music mute and returns the new value.
func (s *Synth) ToggleMusicMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MusicMuted = !s.state.MusicMuted
	s.applyGains()
	return s.state.MusicMuted
}

// ToggleSFXMute flips the effects mute and returns the new value.
func (s *Synth) ToggleSFXMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SFXMuted = !s.state.SFXMuted
	s.applyGains()
	return s.state.SFXMuted
}

// ToggleMute mutes both buses, or unmutes both when both are muted.
// It returns the new IsMuted value.
func (s *Synth) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	muted := !(s.state.MusicMuted && s.state.SFXMuted)
	s.state.MusicMuted = muted
	s.state.SFXMuted = muted
	s.applyGains()
	return muted
}

// IsMuted reports whether both music and effects are muted.
func (s *Synth) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.MusicMuted && s.state.SFXMuted
}

// State returns the volume and mute state.
func (s *Synth) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RestoreState replaces the volume and mute state. Before Init the state is
// kept and applied when the device opens.
func (s *Synth) RestoreState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.MusicVolume = clampVolume(st.MusicVolume)
	st.SFXVolume = clampVolume(st.SFXVolume)
	s.state = st
	s.applyGains()
}

// Play schedules a cue on the sfx bus and reports whether anything was
// scheduled. Nothing plays when the synth is not ready or effects are
// silent.
func (s *Synth) Play(c Cue) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusReady || s.state.SFXMuted || s.state.SFXVolume == 0 {
		return false
	}
	st := c.streamer(s.rate)
	if st == nil {
		return false
	}
	s.out.Lock()
	s.sfx.add(st)
	s.out.Unlock()
	return true
}

func (s *Synth) PlayCorrect() bool       { return s.Play(CueCorrect) }
func (s *Synth) PlayWrong() bool         { return s.Play(CueWrong) }
func (s *Synth) PlayLevelComplete() bool { return s.Play(CueLevelComplete) }
func (s *Synth) PlayGameOver() bool      { return s.Play(CueGameOver) }
func (s *Synth) PlayClick() bool         { return s.Play(CueClick) }
func (s *Synth) PlayHover() bool         { return s.Play(CueHover) }
