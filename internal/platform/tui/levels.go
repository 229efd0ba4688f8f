package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// LevelsModel lists every level with its lock state and best score.
type LevelsModel struct {
	app    *app
	cursor int
	notice string
	help   help.Model
}

// NewLevelsModel opens the level list on the next level to play.
func NewLevelsModel(a *app) LevelsModel {
	return LevelsModel{
		app:    a,
		cursor: nextLevelIndex(a.Store.Progress(), a.Pack.Count()),
		help:   help.New(),
	}
}

// Update handles messages for the level list.
func (m LevelsModel) Update(msg tea.Msg) (LevelsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	keys := m.app.keys
	count := m.app.Pack.Count()

	switch {
	case key.Matches(keyMsg, keys.Back):
		return m, navigate(screenMenu)
	case key.Matches(keyMsg, keys.Up), key.Matches(keyMsg, keys.Left):
		if m.cursor > 0 {
			m.cursor--
			m.notice = ""
			m.app.hover()
		}
	case key.Matches(keyMsg, keys.Down), key.Matches(keyMsg, keys.Right):
		if m.cursor < count-1 {
			m.cursor++
			m.notice = ""
			m.app.hover()
		}
	case key.Matches(keyMsg, keys.Select):
		lvl, ok := m.app.Pack.Get(m.cursor)
		if !ok {
			return m, nil
		}
		if !m.app.Store.Progress().IsUnlocked(lvl.ID) {
			m.notice = fmt.Sprintf("Level %d is locked. Fix level %d first.", lvl.ID, lvl.ID-1)
			return m, nil
		}
		m.app.click()
		return m, playLevel(m.cursor)
	}
	return m, nil
}

// visibleRange returns the slice of levels that fits on screen around the
// cursor.
func (m LevelsModel) visibleRange(count int) (int, int) {
	rows := max(m.app.height-9, 3)
	if count <= rows {
		return 0, count
	}
	start := min(max(m.cursor-rows/2, 0), count-rows)
	return start, start + rows
}

// View renders the level list.
func (m LevelsModel) View() string {
	pal := m.app.palette
	width := m.app.width
	prog := m.app.Store.Progress()
	count := m.app.Pack.Count()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(pal.Title.Render("LEVELS"), width))
	b.WriteString("\n\n")

	var rows strings.Builder
	start, end := m.visibleRange(count)
	for i := start; i < end; i++ {
		lvl, _ := m.app.Pack.Get(i)

		status := "      "
		style := pal.Text
		switch {
		case !prog.IsUnlocked(lvl.ID):
			status = "locked"
			style = pal.Locked
		case prog.IsCompleted(lvl.ID):
			status = "fixed "
			style = pal.Good
		}

		best := ""
		if score, ok := prog.BestScore(lvl.ID); ok {
			best = fmt.Sprintf("best %3d", score)
		}
		name := lvl.Celebrity
		if !prog.IsUnlocked(lvl.ID) {
			name = "???"
		}

		line := fmt.Sprintf("%2d  %-22s %s  %-8s", lvl.ID, truncate(name, 22), status, best)
		if i == m.cursor {
			rows.WriteString(pal.Selected.Render("> " + line))
		} else {
			rows.WriteString(style.Render("  " + line))
		}
		if i < end-1 {
			rows.WriteString("\n")
		}
	}
	b.WriteString(centerBlock(pal.Border.Render(rows.String()), width))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(centerText(pal.Bad.Render(m.notice), width))
	}
	b.WriteString("\n")
	b.WriteString(centerText(pal.Muted.Render(m.help.ShortHelpView([]key.Binding{
		m.app.keys.Up, m.app.keys.Down, m.app.keys.Select, m.app.keys.Back,
	})), width))
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to n runes, marking the cut with a dot.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
