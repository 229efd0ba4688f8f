// Package tui is the Bubble Tea front end: menus, gameplay, settings and
// the live leaderboard, locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mouthfix/internal/session"
)

// frameRate drives animations: shake, confetti and the loading bar.
const frameRate = 30

// TickMsg is sent to advance animations by one frame. Gen identifies the
// loop that scheduled it; a screen drops ticks from loops it abandoned.
type TickMsg struct {
	Time time.Time
	Gen  uint64
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(rate int, gen uint64) tea.Cmd {
	interval := time.Second / time.Duration(rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}

// taskMsg delivers a session task once its delay has passed.
type taskMsg struct {
	task session.Task
}

// scheduleTasks turns session tasks into timed commands.
func scheduleTasks(tasks []session.Task) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		cmds = append(cmds, tea.Tick(t.Delay, func(time.Time) tea.Msg {
			return taskMsg{task: t}
		}))
	}
	return tea.Batch(cmds...)
}
