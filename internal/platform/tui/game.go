package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mouthfix/internal/assets"
	"github.com/vovakirdan/mouthfix/internal/config"
	"github.com/vovakirdan/mouthfix/internal/core"
	"github.com/vovakirdan/mouthfix/internal/leaderboard"
	"github.com/vovakirdan/mouthfix/internal/level"
	"github.com/vovakirdan/mouthfix/internal/progress"
	"github.com/vovakirdan/mouthfix/internal/session"
)

const (
	headerLines = 3
	footerLines = 2
	shakeFrames = 12
	submitWait  = 5 * time.Second
)

// levelReadyMsg reports that a level's images have settled.
type levelReadyMsg struct {
	index int
	gen   uint64
}

// submitMsg carries the leaderboard submission result.
type submitMsg struct {
	entry   leaderboard.Entry
	sent    bool
	offline bool
	err     error
	gen     uint64
}

// sessionConfig maps gameplay configuration to session rules.
func sessionConfig(c config.GameplayConfig) session.Config {
	return session.Config{
		InitialLives:   c.InitialLives,
		Points:         c.Points,
		ShakeClear:     c.ShakeClear,
		CelebrateDelay: c.CelebrateDelay,
		AutoAdvance:    c.AutoAdvance,
	}
}

// GameModel is the play screen for one level at a time.
type GameModel struct {
	app  *app
	sess *session.Session
	help help.Model

	index int
	lvl   level.Level
	gen   uint64 // bumped on every Enter and leave; async results carry it

	loading  bool
	load     assets.Progress
	ticking  bool
	cursor   int
	shake    int
	confetti *confetti

	feedback  string
	good      bool
	finished  bool
	submitted bool
	submit    string
}

// NewGameModel creates an idle game screen.
func NewGameModel(a *app) GameModel {
	haptics := session.NewHaptics(a.Config.Haptics.BaseDuration, a.Vibrator, func() progress.HapticsSettings {
		return a.Store.Settings().Haptics
	})
	return GameModel{
		app:  a,
		sess: session.New(sessionConfig(a.Config.Gameplay), a.Store, a.sounds(), haptics),
		help: help.New(),
	}
}

// Enter starts loading the level at index.
func (m GameModel) Enter(index int) (GameModel, tea.Cmd) {
	lvl, ok := m.app.Pack.Get(index)
	if !ok {
		return m, navigate(screenMenu)
	}

	m.gen++
	m.index, m.lvl = index, lvl
	m.loading = true
	m.load = assets.Progress{}
	m.cursor = 0
	m.shake = 0
	m.confetti = nil
	m.feedback, m.good = "", false
	m.finished, m.submitted, m.submit = false, false, ""
	m.sess.Reset()

	m.ticking = true
	return m, tea.Batch(m.preload(), tickCmd(frameRate, m.gen))
}

// leave abandons the level; pending tasks and async results go stale.
func (m *GameModel) leave() {
	m.gen++
	m.sess.Reset()
	m.confetti = nil
	m.ticking = false
}

func (m GameModel) preload() tea.Cmd {
	a, index, lvl, gen := m.app, m.index, m.lvl, m.gen
	return func() tea.Msg {
		if a.Preloader != nil {
			a.Preloader.PreloadLevel(a.ctx, index, lvl, nil)
		}
		return levelReadyMsg{index: index, gen: gen}
	}
}

func (m GameModel) preloadAhead() tea.Cmd {
	next, ok := m.app.Pack.Get(m.index + 1)
	if !ok || m.app.Preloader == nil {
		return nil
	}
	a := m.app
	return func() tea.Msg {
		a.Preloader.PreloadAhead(a.ctx, next)
		return nil
	}
}

func (m GameModel) animating() bool {
	return m.loading || m.shake > 0 || m.confetti.active()
}

func (m *GameModel) ensureTicking() tea.Cmd {
	if m.ticking || !m.animating() {
		return nil
	}
	m.ticking = true
	return tickCmd(frameRate, m.gen)
}

func (m GameModel) reduceMotion() bool {
	return m.app.settings().Accessibility.ReduceMotion
}

// Update handles messages for the play screen.
func (m GameModel) Update(msg tea.Msg) (GameModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		lay := layoutGame(m.app.width, m.app.height)
		for i, r := range lay.options {
			if r.Contains(msg.X, msg.Y-headerLines) {
				return m.pick(i)
			}
		}
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.ticking = false
		if m.loading && m.app.Preloader != nil {
			m.load = m.app.Preloader.Progress()
		}
		if m.shake > 0 {
			m.shake--
		}
		if m.confetti != nil {
			m.confetti.step(time.Second / frameRate)
			if !m.confetti.active() {
				m.confetti = nil
			}
		}
		return m, m.ensureTicking()

	case levelReadyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.load = assets.Progress{Loaded: m.load.Total, Total: m.load.Total, Percent: 100}
		m.sess.Enter(m.index, m.lvl)
		return m, m.preloadAhead()

	case taskMsg:
		return m.runTask(msg.task)

	case submitMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.submit = m.submitStatus(msg)
		return m, nil
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (GameModel, tea.Cmd) {
	keys := m.app.keys
	st := m.sess.State()
	over := st.GameOver || m.finished

	switch {
	case key.Matches(msg, keys.Back):
		return m, navigate(screenMenu)
	case key.Matches(msg, keys.Mute):
		m.app.toggleMute()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case over && key.Matches(msg, keys.Retry):
		return m.Enter(m.index)
	case over && key.Matches(msg, keys.Select):
		return m, navigate(screenMenu)
	}
	if over || m.loading {
		return m, nil
	}

	if i := keys.optionIndex(msg); i >= 0 {
		return m.pick(i)
	}
	switch {
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.app.hover()
		}
	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
		if m.cursor < len(m.lvl.Options)-1 {
			m.cursor++
			m.app.hover()
		}
	case key.Matches(msg, keys.Select):
		return m.pick(m.cursor)
	}
	return m, nil
}

// pick submits option i to the session.
func (m GameModel) pick(i int) (GameModel, tea.Cmd) {
	if m.loading || i < 0 || i >= len(m.lvl.Options) {
		return m, nil
	}
	m.cursor = i
	out := m.sess.Select(m.lvl.Options[i].ID)
	if out.Ignored {
		return m, nil
	}

	cmds := []tea.Cmd{scheduleTasks(out.Tasks)}
	switch {
	case out.Correct:
		m.feedback, m.good = fmt.Sprintf("Fixed it! +%d", out.Points), true
	case out.GameOver:
		m.feedback, m.good = "Out of lives!", false
		cmds = append(cmds, m.submitScore())
	default:
		m.feedback, m.good = fmt.Sprintf("Not that one. %s left.", plural(out.LivesLeft, "life", "lives")), false
		if !m.reduceMotion() {
			m.shake = shakeFrames
		}
	}
	cmds = append(cmds, m.ensureTicking())
	return m, tea.Batch(cmds...)
}

func (m GameModel) runTask(t session.Task) (GameModel, tea.Cmd) {
	if !m.sess.Fire(t) {
		return m, nil
	}
	switch t.Kind {
	case session.TaskShakeClear:
		m.shake = 0
	case session.TaskCelebrate:
		if !m.reduceMotion() {
			lay := layoutGame(m.app.width, m.app.height)
			m.confetti = newConfetti(lay.canvas.W, lay.canvas.H, uint64(time.Now().UnixNano()))
			return m, m.ensureTicking()
		}
	case session.TaskAutoAdvance:
		if m.index+1 < m.app.Pack.Count() {
			return m.Enter(m.index + 1)
		}
		m.finished = true
		m.confetti = nil
		return m, m.submitScore()
	}
	return m, nil
}

// submitScore posts the player's progress once per attempt.
func (m *GameModel) submitScore() tea.Cmd {
	if m.submitted {
		return nil
	}
	m.submitted = true
	if m.app.Leaderboard == nil {
		m.submit = "Leaderboard unavailable."
		return nil
	}
	m.submit = "Submitting score..."

	a, gen := m.app, m.gen
	name := a.Store.Profile().PlayerName
	prog := a.Store.Progress()
	timeout := a.Config.Leaderboard.Timeout
	if timeout <= 0 {
		timeout = submitWait
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, timeout)
		defer cancel()
		e, sent, err := leaderboard.SubmitProgress(ctx, a.Leaderboard, name, prog)
		offline := false
		if o, ok := a.Leaderboard.(interface{ Offline() bool }); ok {
			offline = o.Offline()
		}
		return submitMsg{entry: e, sent: sent, offline: offline, err: err, gen: gen}
	}
}

func (m GameModel) submitStatus(msg submitMsg) string {
	switch {
	case msg.err != nil:
		m.app.Logger.Warn("score submission failed", "error", msg.err)
		return "Could not reach the leaderboard. Try again later."
	case !msg.sent && m.app.Store.Profile().PlayerName == "":
		return "Set a name in the menu to join the leaderboard."
	case !msg.sent:
		return "No score to submit yet."
	case msg.offline:
		return "Leaderboard offline. Score kept locally; try again later."
	default:
		return fmt.Sprintf("Score %d submitted as %s.", msg.entry.Score, msg.entry.Name)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// gameLayout places the main picture and the option tiles on the canvas.
type gameLayout struct {
	canvas  core.Rect
	main    core.Rect
	options [level.OptionCount]core.Rect
}

func layoutGame(width, height int) gameLayout {
	canvasH := max(height-headerLines-footerLines, 8)
	optH := max(canvasH/3, 4)
	mainH := canvasH - optH - 1

	lay := gameLayout{
		canvas: core.NewRect(0, 0, width, canvasH),
		main:   core.NewRect(0, 0, width, mainH),
	}
	const gap = 1
	n := len(lay.options)
	optW := max((width-gap*(n+1))/n, 3)
	for i := range lay.options {
		lay.options[i] = core.NewRect(gap+i*(optW+gap), mainH+1, optW, optH)
	}
	return lay
}

// View renders the play screen.
func (m GameModel) View() string {
	if m.app.settings().Accessibility.ScreenReaderMode {
		return m.textView()
	}

	pal := m.app.palette
	width := m.app.width
	st := m.sess.State()

	var b strings.Builder
	b.WriteString(m.header(st))
	b.WriteString("\n")

	lay := layoutGame(width, m.app.height)
	canvas := core.NewScreen(lay.canvas.W, lay.canvas.H)
	if m.loading {
		m.drawLoading(canvas)
	} else {
		m.drawLevel(canvas, lay, st)
		switch {
		case st.GameOver:
			m.drawPanel(canvas, "GAME OVER", fmt.Sprintf("Total score %d", m.app.Store.Progress().TotalScore))
		case m.finished:
			m.drawPanel(canvas, "EVERY MOUTH FIXED!", fmt.Sprintf("Total score %d", m.app.Store.Progress().TotalScore))
		}
		m.confetti.draw(canvas)
	}
	b.WriteString(RenderScreen(canvas))
	b.WriteString("\n")

	var helpView string
	if st.GameOver || m.finished {
		helpView = m.help.ShortHelpView([]key.Binding{m.app.keys.Retry, m.app.keys.Select, m.app.keys.Back})
	} else {
		helpView = m.help.View(gameHelp{m.app.keys})
	}
	b.WriteString(centerText(pal.Muted.Render(helpView), width))
	return b.String()
}

func (m GameModel) header(st session.State) string {
	pal := m.app.palette
	width := m.app.width

	hearts := strings.Repeat("♥", st.Lives) + strings.Repeat("♡", max(m.app.Config.Gameplay.InitialLives-st.Lives, 0))
	title := fmt.Sprintf("Level %d/%d  ·  %s", m.lvl.ID, m.app.Pack.Count(), m.lvl.Celebrity)
	stats := fmt.Sprintf("score %d  ·  total %d  ·  ", st.Score, m.app.Store.Progress().TotalScore)

	var b strings.Builder
	b.WriteString(centerText(pal.Title.Render(title), width))
	b.WriteString("\n")
	b.WriteString(centerText(pal.Text.Render(stats)+pal.Heart.Render(hearts), width))
	b.WriteString("\n")

	line := m.feedback
	style := pal.Bad
	if m.good {
		style = pal.Good
	}
	if m.submit != "" {
		line = strings.TrimSpace(line + "  " + m.submit)
	}
	b.WriteString(centerText(style.Render(line), width))
	return b.String()
}

func (m GameModel) drawLoading(s *core.Screen) {
	pal := m.app.palette
	y := s.Height() / 2
	s.DrawTextCentered(y-1, "Loading "+m.lvl.Celebrity+"...", pal.Frame)

	barW := min(40, s.Width()-4)
	filled := barW * m.load.Percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
	s.DrawTextCentered(y+1, fmt.Sprintf("%s %3d%%", bar, m.load.Percent), pal.Focus)
}

func (m GameModel) image(path string) (image.Image, bool) {
	if m.app.Preloader == nil || path == "" {
		return nil, false
	}
	return m.app.Preloader.Image(path)
}

func (m GameModel) drawLevel(s *core.Screen, lay gameLayout, st session.State) {
	pal := m.app.palette
	if pal.Backdrop.Set {
		s.FillRect(s.Bounds(), pal.Backdrop)
	}

	main := lay.main
	if m.shake > 0 {
		offset := 2
		if m.shake%2 == 0 {
			offset = -2
		}
		main.X += offset
	}

	overlay := ""
	picture := m.lvl.BaseImage
	switch {
	case st.Complete:
		if _, ok := m.image(m.lvl.CompletedImage); ok {
			picture = m.lvl.CompletedImage
		} else {
			overlay = m.lvl.CorrectOptionID
		}
	case st.Selected != "":
		overlay = st.Selected
	}

	img, ok := m.image(picture)
	if !ok {
		m.drawPlaceholder(s, main.Inset(1), m.lvl.Celebrity)
	} else {
		area := main.Fit(img.Bounds().Dx(), img.Bounds().Dy())
		s.DrawImage(area, img)
		if opt, found := m.lvl.Option(overlay); found {
			if mouth, ok := m.image(opt.Image); ok {
				s.DrawImage(overlayRect(area, m.lvl.Overlay, mouth.Bounds()), mouth)
			}
		}
	}

	for i, r := range lay.options {
		opt := m.lvl.Options[i]
		frame := pal.Frame
		switch {
		case st.Selected == opt.ID && !st.Complete:
			frame = pal.Wrong
		case i == m.cursor:
			frame = pal.Focus
		}
		s.DrawBox(r, frame)
		s.DrawText(r.X+2, r.Y, fmt.Sprintf(" %d ", i+1), frame)

		inner := r.Inset(1)
		if thumb, ok := m.image(opt.Image); ok {
			s.DrawImage(inner.Fit(thumb.Bounds().Dx(), thumb.Bounds().Dy()), thumb)
		} else {
			s.DrawText(inner.X+max((inner.W-len([]rune(opt.ID)))/2, 0), inner.Y+inner.H/2, opt.ID, frame)
		}
	}
}

// overlayRect places the mouth on the picture using the level's overlay
// percentages, keeping the mouth image's aspect.
func overlayRect(picture core.Rect, ov level.Overlay, mouth image.Rectangle) core.Rect {
	w := max(int(float64(picture.W)*ov.Width/100), 1)
	h := 1
	if mouth.Dx() > 0 {
		h = max((w*mouth.Dy()+mouth.Dx()-1)/mouth.Dx()/2, 1)
	}
	return core.NewRect(
		picture.X+int(float64(picture.W)*ov.Left/100),
		picture.Y+int(float64(picture.H)*ov.Top/100),
		w, h,
	)
}

func (m GameModel) drawPlaceholder(s *core.Screen, r core.Rect, name string) {
	pal := m.app.palette
	s.DrawBox(r, pal.Frame)
	mid := r.Y + r.H/2
	for i, line := range []string{name, "(picture unavailable)"} {
		x := r.X + max((r.W-len([]rune(line)))/2, 1)
		s.DrawText(x, mid-1+i, line, pal.Frame)
	}
}

func (m GameModel) drawPanel(s *core.Screen, title, detail string) {
	pal := m.app.palette
	w := min(max(len([]rune(title)), len([]rune(detail)))+8, s.Width())
	r := core.NewRect((s.Width()-w)/2, s.Height()/2-2, w, 5)
	s.FillRect(r, core.RGB(0x1c, 0x1c, 0x1c))
	s.DrawBox(r, pal.Focus)
	s.DrawText(r.X+(r.W-len([]rune(title)))/2, r.Y+1, title, pal.Focus)
	s.DrawText(r.X+(r.W-len([]rune(detail)))/2, r.Y+3, detail, pal.Frame)
}

// textView describes the level without pictures for screen readers.
func (m GameModel) textView() string {
	st := m.sess.State()
	var b strings.Builder

	fmt.Fprintf(&b, "Level %d of %d: %s.\n", m.lvl.ID, m.app.Pack.Count(), m.lvl.Celebrity)
	if m.loading {
		fmt.Fprintf(&b, "Loading, %d percent.\n", m.load.Percent)
		return b.String()
	}
	fmt.Fprintf(&b, "Score %d. Total %d. %s left.\n", st.Score, m.app.Store.Progress().TotalScore,
		plural(st.Lives, "life", "lives"))
	if m.feedback != "" {
		b.WriteString(m.feedback + "\n")
	}
	if m.submit != "" {
		b.WriteString(m.submit + "\n")
	}

	switch {
	case st.GameOver:
		b.WriteString("Game over. Press r to retry or enter for the menu.\n")
	case m.finished:
		b.WriteString("Every mouth is fixed. Press r to replay or enter for the menu.\n")
	case st.Complete:
		b.WriteString("Level fixed. Moving on shortly.\n")
	default:
		b.WriteString("Which mouth belongs to this face?\n")
		for i, opt := range m.lvl.Options {
			marker := " "
			if i == m.cursor {
				marker = ">"
			}
			fmt.Fprintf(&b, "%s %d. %s\n", marker, i+1, opt.ID)
		}
	}
	return b.String()
}
