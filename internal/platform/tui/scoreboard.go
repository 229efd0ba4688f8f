package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mouthfix/internal/leaderboard"
)

// Scoreboard layout constants
const (
	tableMinWidth = 50 // Below this the date column is dropped
	tableChrome   = 9  // Title, status, help and table borders
)

// scoreFeed connects a leaderboard subscription to the UI loop. Updates are
// coalesced: only the newest list waits in the channel.
type scoreFeed struct {
	updates chan []leaderboard.Entry
	done    chan struct{}
	once    sync.Once
	unsub   func()
}

func newScoreFeed() *scoreFeed {
	return &scoreFeed{
		updates: make(chan []leaderboard.Entry, 1),
		done:    make(chan struct{}),
	}
}

func (f *scoreFeed) push(entries []leaderboard.Entry) {
	if f.stopped() {
		return
	}
	for {
		select {
		case <-f.done:
			return
		case f.updates <- entries:
			return
		default:
			select {
			case <-f.updates:
			default:
			}
		}
	}
}

func (f *scoreFeed) stopped() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *scoreFeed) stop() {
	f.once.Do(func() {
		close(f.done)
		if f.unsub != nil {
			f.unsub()
		}
	})
}

// wait blocks until the next update; it returns nil once the feed stops.
func (f *scoreFeed) wait() tea.Cmd {
	return func() tea.Msg {
		if f.stopped() {
			return nil
		}
		select {
		case entries := <-f.updates:
			return scoresMsg{feed: f, entries: entries}
		case <-f.done:
			return nil
		}
	}
}

type subscribedMsg struct {
	feed  *scoreFeed
	unsub func()
	err   error
}

type scoresMsg struct {
	feed    *scoreFeed
	entries []leaderboard.Entry
}

// ScoreboardModel shows the live top scores.
type ScoreboardModel struct {
	app     *app
	feed    *scoreFeed
	entries []leaderboard.Entry
	table   table.Model
	help    help.Model
	loading bool
	err     error
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(a *app) ScoreboardModel {
	m := ScoreboardModel{app: a, help: help.New()}
	m.table = m.createTable()
	return m
}

func (m ScoreboardModel) limit() int {
	if l := m.app.Config.Leaderboard.Limit; l > 0 {
		return min(l, leaderboard.MaxLimit)
	}
	return leaderboard.DefaultLimit
}

// Open subscribes to the leaderboard. Call unsubscribe when leaving.
func (m ScoreboardModel) Open() (ScoreboardModel, tea.Cmd) {
	m.unsubscribe()
	m.entries = nil
	m.err = nil
	m.table = m.createTable()

	client := m.app.Leaderboard
	if client == nil {
		return m, nil
	}

	feed := newScoreFeed()
	m.feed = feed
	m.loading = true
	ctx, limit := m.app.ctx, m.limit()
	return m, func() tea.Msg {
		unsub, err := client.Subscribe(ctx, limit, feed.push)
		return subscribedMsg{feed: feed, unsub: unsub, err: err}
	}
}

// unsubscribe stops the live feed. Safe to call more than once.
func (m *ScoreboardModel) unsubscribe() {
	if m.feed != nil {
		m.feed.stop()
		m.feed = nil
	}
}

// resize rebuilds the table for the current terminal size.
func (m *ScoreboardModel) resize() {
	m.table = m.createTable()
	m.updateTableRows()
	m.help.Width = m.app.width
}

// createTable creates a new table with appropriate columns.
func (m ScoreboardModel) createTable() table.Model {
	tableWidth := m.app.width - 6 // Margins and border
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 22},
		{Title: "Score", Width: 7},
		{Title: "Fixed", Width: 6},
	}
	if tableWidth >= tableMinWidth+14 {
		columns = append(columns, table.Column{Title: "Date", Width: 13})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.app.height-tableChrome, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the current entries. The player's
// own rows are starred.
func (m *ScoreboardModel) updateTableRows() {
	me := strings.TrimSpace(m.app.Store.Profile().PlayerName)
	withDate := len(m.table.Columns()) > 4

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		name := truncate(e.Name, 20)
		if me != "" && strings.EqualFold(e.Name, me) {
			name = "★ " + truncate(e.Name, 18)
		}
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			name,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d", e.LevelsCompleted),
		}
		if withDate {
			row = append(row, e.Timestamp.Local().Format("Jan 02 15:04"))
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case subscribedMsg:
		if msg.feed != m.feed {
			if msg.unsub != nil {
				msg.unsub()
			}
			return m, nil
		}
		if msg.err != nil {
			m.app.Logger.Warn("leaderboard subscribe failed", "error", msg.err)
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.feed.unsub = msg.unsub
		return m, m.feed.wait()

	case scoresMsg:
		if msg.feed != m.feed {
			return m, nil
		}
		m.loading = false
		m.entries = msg.entries
		m.updateTableRows()
		return m, m.feed.wait()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.app.keys.Back):
			return m, navigate(screenMenu)
		case key.Matches(msg, m.app.keys.Up), key.Matches(msg, m.app.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m ScoreboardModel) offline() bool {
	o, ok := m.app.Leaderboard.(interface{ Offline() bool })
	return ok && o.Offline()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	pal := m.app.palette
	width := m.app.width

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(pal.Title.Render("LEADERBOARD"), width))
	b.WriteString("\n")

	status := fmt.Sprintf("top %d · live", m.limit())
	if m.offline() {
		status = "offline · showing scores from this session"
	}
	b.WriteString(centerText(pal.Muted.Render(status), width))
	b.WriteString("\n\n")

	b.WriteString(centerBlock(pal.Border.Render(m.renderTableContent()), width))
	b.WriteString("\n\n")
	b.WriteString(centerText(pal.Muted.Render(m.help.ShortHelpView([]key.Binding{
		m.app.keys.Up, m.app.keys.Down, m.app.keys.Back,
	})), width))
	b.WriteString("\n")
	return b.String()
}

// renderTableContent renders the table or a status message.
func (m ScoreboardModel) renderTableContent() string {
	empty := lipgloss.NewStyle().Italic(true).Padding(1, 4)
	switch {
	case m.app.Leaderboard == nil, m.err != nil:
		return empty.Inherit(m.app.palette.Bad).Render("Leaderboard unavailable.\nTry again later.")
	case m.loading:
		return empty.Inherit(m.app.palette.Muted).Render("Loading scores...")
	case len(m.entries) == 0:
		return empty.Inherit(m.app.palette.Muted).Render("No scores recorded yet.\nFix a few mouths to set one!")
	}
	return m.table.View()
}
