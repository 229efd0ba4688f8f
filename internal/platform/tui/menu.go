package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mouthfix/internal/progress"
)

type menuAction int

const (
	menuPlay menuAction = iota
	menuLevels
	menuScores
	menuSettings
	menuName
	menuQuit
)

// MenuItem is one selectable entry of the main menu.
type MenuItem struct {
	Title  string
	action menuAction
}

// MenuModel is the main menu.
type MenuModel struct {
	app    *app
	items  []MenuItem
	cursor int
	help   help.Model
}

// NewMenuModel creates a new menu model.
func NewMenuModel(a *app) MenuModel {
	play := "Play"
	if len(a.Store.Progress().CompletedLevels) > 0 {
		play = "Continue"
	}
	items := []MenuItem{
		{Title: play, action: menuPlay},
		{Title: "Levels", action: menuLevels},
		{Title: "Leaderboard", action: menuScores},
		{Title: "Settings", action: menuSettings},
		{Title: "Change name", action: menuName},
		{Title: "Quit", action: menuQuit},
	}
	return MenuModel{app: a, items: items, help: help.New()}
}

// nextLevelIndex returns the first unlocked level not yet completed, or the
// last level when every one is done.
func nextLevelIndex(p progress.Progress, count int) int {
	for id := 1; id <= count; id++ {
		if p.IsUnlocked(id) && !p.IsCompleted(id) {
			return id - 1
		}
	}
	return max(count-1, 0)
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	keys := m.app.keys

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.app.hover()
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.app.hover()
		}
	case key.Matches(keyMsg, keys.Mute):
		m.app.toggleMute()
	case key.Matches(keyMsg, keys.Select):
		m.app.click()
		return m, m.activate(m.items[m.cursor].action)
	}
	return m, nil
}

func (m MenuModel) activate(action menuAction) tea.Cmd {
	switch action {
	case menuPlay:
		return playLevel(nextLevelIndex(m.app.Store.Progress(), m.app.Pack.Count()))
	case menuLevels:
		return navigate(screenLevels)
	case menuScores:
		return navigate(screenScores)
	case menuSettings:
		return navigate(screenSettings)
	case menuName:
		return navigate(screenName)
	default:
		return func() tea.Msg { return quitMsg{} }
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	pal := m.app.palette
	width := m.app.width
	prog := m.app.Store.Progress()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(pal.Title.Render("F I X   T H E   M O U T H"), width))
	b.WriteString("\n\n")

	who := fmt.Sprintf("%s  ·  score %d  ·  high %d  ·  %d/%d fixed",
		m.app.Store.DisplayName(), prog.TotalScore, prog.HighScore,
		len(prog.CompletedLevels), m.app.Pack.Count())
	b.WriteString(centerText(pal.Muted.Render(who), width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = pal.Cursor.Render("> " + item.Title)
		} else {
			line = pal.Text.Render(line)
		}
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
	}

	if m.app.Store.Degraded() {
		b.WriteString("\n")
		b.WriteString(centerText(pal.Bad.Render("Progress cannot be saved this session."), width))
		b.WriteString("\n")
	}
	if m.app.settings().Audio.MusicMuted && m.app.settings().Audio.SFXMuted {
		b.WriteString("\n")
		b.WriteString(centerText(pal.Muted.Render("sound muted"), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(pal.Muted.Render(m.help.ShortHelpView([]key.Binding{
		m.app.keys.Up, m.app.keys.Down, m.app.keys.Select, m.app.keys.Mute, m.app.keys.Quit,
	})), width))
	b.WriteString("\n")
	return b.String()
}
