package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mouthfix/internal/progress"
)

// NameModel asks for the player's leaderboard name.
type NameModel struct {
	app   *app
	input textinput.Model
	first bool // no name stored yet
}

// NewNameModel creates a name entry prefilled with the stored name.
func NewNameModel(a *app) NameModel {
	ti := textinput.New()
	ti.Placeholder = a.Store.DisplayName()
	ti.CharLimit = progress.MaxNameLength
	ti.Width = progress.MaxNameLength + 1
	ti.Prompt = "> "
	ti.SetValue(a.Store.Profile().PlayerName)
	ti.Focus()

	return NameModel{
		app:   a,
		input: ti,
		first: a.Store.Profile().PlayerName == "",
	}
}

// Init starts the cursor blinking.
func (m NameModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the name entry.
func (m NameModel) Update(msg tea.Msg) (NameModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyEnter:
			m.app.click()
			m.app.Store.SetPlayerName(m.input.Value())
			return m, navigate(screenMenu)
		case keyMsg.Type == tea.KeyEsc:
			return m, navigate(screenMenu)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the name entry.
func (m NameModel) View() string {
	pal := m.app.palette
	width := m.app.width

	var b strings.Builder
	b.WriteString("\n")
	if m.first {
		b.WriteString(centerText(pal.Title.Render("Welcome!"), width))
		b.WriteString("\n\n")
		b.WriteString(centerText(pal.Text.Render("Pick a name for the leaderboard."), width))
	} else {
		b.WriteString(centerText(pal.Title.Render("Change name"), width))
	}
	b.WriteString("\n\n")
	b.WriteString(centerBlock(pal.Border.Render(m.input.View()), width))
	b.WriteString("\n\n")
	hint := "enter: save  ·  esc: skip"
	if m.first {
		hint = "enter: save  ·  esc: play as " + m.app.Store.DisplayName()
	}
	b.WriteString(centerText(pal.Muted.Render(hint), width))
	b.WriteString("\n")
	return b.String()
}
