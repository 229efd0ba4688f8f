package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/assets"
	"github.com/vovakirdan/mouthfix/internal/audio"
	"github.com/vovakirdan/mouthfix/internal/config"
	"github.com/vovakirdan/mouthfix/internal/leaderboard"
	"github.com/vovakirdan/mouthfix/internal/level"
	"github.com/vovakirdan/mouthfix/internal/progress"
	"github.com/vovakirdan/mouthfix/internal/session"
)

// Deps are the collaborators a game needs. Synth, Leaderboard and Vibrator
// may be nil.
type Deps struct {
	Config      config.Config
	Store       *progress.Store
	Pack        *level.Pack
	Preloader   *assets.Preloader
	Synth       *audio.Synth
	Leaderboard leaderboard.Client
	Vibrator    session.Vibrator
	Logger      *log.Logger

	// StartLevel opens the game directly on this level id when it is
	// unlocked. Zero starts at the menu.
	StartLevel int
}

type screen int

const (
	screenMenu screen = iota
	screenName
	screenLevels
	screenGame
	screenSettings
	screenScores
)

// navigateMsg switches screens. index is the level index for screenGame.
type navigateMsg struct {
	to    screen
	index int
}

func navigate(to screen) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

func playLevel(index int) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: screenGame, index: index} }
}

// app is the state shared by every screen. Only the UI goroutine touches it.
type app struct {
	Deps
	ctx     context.Context
	keys    KeyMap
	palette Palette
	width   int
	height  int
}

func (a *app) settings() progress.Settings {
	return a.Store.Settings()
}

// applySettings pushes stored settings into the synth and the palette.
func (a *app) applySettings() {
	st := a.settings()
	a.palette = NewPalette(st.Accessibility.HighContrast)
	if a.Synth != nil {
		a.Synth.RestoreState(audio.State{
			MusicVolume: st.Audio.MusicVolume,
			SFXVolume:   st.Audio.SFXVolume,
			MusicMuted:  st.Audio.MusicMuted,
			SFXMuted:    st.Audio.SFXMuted,
		})
	}
}

func (a *app) click() {
	if a.Synth != nil {
		a.Synth.PlayClick()
	}
}

func (a *app) hover() {
	if a.Synth != nil {
		a.Synth.PlayHover()
	}
}

// toggleMute flips both buses together and persists the result.
func (a *app) toggleMute() bool {
	st := a.settings().Audio
	muted := !(st.MusicMuted && st.SFXMuted)
	if a.Synth != nil {
		muted = a.Synth.ToggleMute()
	}
	st.MusicMuted, st.SFXMuted = muted, muted
	a.Store.UpdateSettings(progress.SettingsPatch{Audio: &st})
	return muted
}

// sounds returns the synth as session sounds, or nil without one.
func (a *app) sounds() session.Sounds {
	if a.Synth == nil {
		return nil
	}
	return a.Synth
}

// Model is the top-level Bubble Tea model: it owns the screens and routes
// messages to the active one.
type Model struct {
	app      *app
	cancel   context.CancelFunc
	screen   screen
	menu     MenuModel
	name     NameModel
	levels   LevelsModel
	game     GameModel
	settings SettingsModel
	scores   ScoreboardModel
	quitting bool
}

// NewModel creates the model. Call Close when the program has exited.
func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &app{
		Deps:   deps,
		ctx:    ctx,
		keys:   DefaultKeyMap(),
		width:  80,
		height: 24,
	}
	a.applySettings()

	m := Model{
		app:      a,
		cancel:   cancel,
		menu:     NewMenuModel(a),
		name:     NewNameModel(a),
		levels:   NewLevelsModel(a),
		game:     NewGameModel(a),
		settings: NewSettingsModel(a),
		scores:   NewScoreboardModel(a),
	}
	switch {
	case deps.StartLevel > 0 && deps.Store.Progress().IsUnlocked(deps.StartLevel):
		m.screen = screenGame
	case deps.Store.Profile().PlayerName == "":
		m.screen = screenName
	}
	return m
}

// Init starts background music and the first screen.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startBGM()}
	switch m.screen {
	case screenGame:
		cmds = append(cmds, playLevel(m.app.StartLevel-1))
	case screenName:
		cmds = append(cmds, m.name.Init())
	}
	return tea.Batch(cmds...)
}

func (m Model) startBGM() tea.Cmd {
	a := m.app
	if a.Synth == nil || a.Config.Audio.BGM == "" {
		return nil
	}
	return func() tea.Msg {
		if err := a.Synth.PlayBGM(a.ctx, a.Config.Audio.BGM, true); err != nil {
			a.Logger.Warn("background music unavailable", "source", a.Config.Audio.BGM, "error", err)
		}
		return nil
	}
}

// Close stops background work started by the model.
func (m Model) Close() {
	m.scores.unsubscribe()
	m.cancel()
	if m.app.Synth != nil {
		m.app.Synth.FadeOutBGM(300 * time.Millisecond)
	}
}

// Update handles messages and routes them to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.app.width, m.app.height = msg.Width, msg.Height
		m.scores.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		// q quits everywhere except while typing a name.
		if m.screen != screenName && key.Matches(msg, m.app.keys.Quit) {
			return m.quit()
		}

	case subscribedMsg, scoresMsg:
		// A late subscription must still be closed after leaving the screen.
		var cmd tea.Cmd
		m.scores, cmd = m.scores.Update(msg)
		return m, cmd

	case navigateMsg:
		return m.switchTo(msg)

	case quitMsg:
		return m.quit()
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenMenu:
		m.menu, cmd = m.menu.Update(msg)
	case screenName:
		m.name, cmd = m.name.Update(msg)
	case screenLevels:
		m.levels, cmd = m.levels.Update(msg)
	case screenGame:
		m.game, cmd = m.game.Update(msg)
	case screenSettings:
		m.settings, cmd = m.settings.Update(msg)
	case screenScores:
		m.scores, cmd = m.scores.Update(msg)
	}
	return m, cmd
}

type quitMsg struct{}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.game.leave()
	m.scores.unsubscribe()
	return m, tea.Quit
}

func (m Model) switchTo(msg navigateMsg) (tea.Model, tea.Cmd) {
	if m.screen == screenGame && msg.to != screenGame {
		m.game.leave()
	}
	if m.screen == screenScores && msg.to != screenScores {
		m.scores.unsubscribe()
	}
	m.screen = msg.to

	switch msg.to {
	case screenMenu:
		m.menu = NewMenuModel(m.app)
		return m, nil
	case screenName:
		m.name = NewNameModel(m.app)
		return m, m.name.Init()
	case screenLevels:
		m.levels = NewLevelsModel(m.app)
		return m, nil
	case screenGame:
		var cmd tea.Cmd
		m.game, cmd = m.game.Enter(msg.index)
		return m, cmd
	case screenSettings:
		m.settings = NewSettingsModel(m.app)
		return m, nil
	case screenScores:
		var cmd tea.Cmd
		m.scores, cmd = m.scores.Open()
		return m, cmd
	}
	return m, nil
}

// View renders the active screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenName:
		return m.name.View()
	case screenLevels:
		return m.levels.View()
	case screenGame:
		return m.game.View()
	case screenSettings:
		return m.settings.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Run starts the Bubble Tea program for a local terminal.
func Run(deps Deps) error {
	model := NewModel(deps)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Click to pick a mouth
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		model.Close()
	}
	return err
}
