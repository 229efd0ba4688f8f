package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mouthfix/internal/progress"
)

const (
	volumeStep    = 10
	intensityStep = 0.1
)

var settingLabels = map[progress.SettingKey]string{
	progress.SettingMusicVolume:      "Music volume",
	progress.SettingSFXVolume:        "Effects volume",
	progress.SettingMusicMuted:       "Mute music",
	progress.SettingSFXMuted:         "Mute effects",
	progress.SettingHapticsEnabled:   "Vibration",
	progress.SettingHapticsIntensity: "Vibration strength",
	progress.SettingScreenReaderMode: "Screen reader mode",
	progress.SettingHighContrast:     "High contrast",
	progress.SettingReduceMotion:     "Reduce motion",
}

type settingsAction int

const (
	actionResetProgress settingsAction = iota + 1
	actionHardReset
)

// settingsRow is either a stored setting or a destructive action.
type settingsRow struct {
	key    progress.SettingKey
	action settingsAction
}

// SettingsModel edits stored settings and offers the reset actions.
type SettingsModel struct {
	app     *app
	rows    []settingsRow
	cursor  int
	confirm settingsAction // pending y/n question, zero when none
	notice  string
	help    help.Model
}

// NewSettingsModel creates the settings screen.
func NewSettingsModel(a *app) SettingsModel {
	var rows []settingsRow
	for _, k := range progress.SettingKeys() {
		rows = append(rows, settingsRow{key: k})
	}
	rows = append(rows,
		settingsRow{action: actionResetProgress},
		settingsRow{action: actionHardReset},
	)
	return SettingsModel{app: a, rows: rows, help: help.New()}
}

// Update handles messages for the settings screen.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.confirm != 0 {
		return m.answer(keyMsg)
	}
	keys := m.app.keys

	switch {
	case key.Matches(keyMsg, keys.Back):
		return m, navigate(screenMenu)
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.app.hover()
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.app.hover()
		}
	case key.Matches(keyMsg, keys.Left):
		m.adjust(-1)
	case key.Matches(keyMsg, keys.Right):
		m.adjust(1)
	case key.Matches(keyMsg, keys.Select):
		row := m.rows[m.cursor]
		if row.action != 0 {
			m.confirm = row.action
			m.notice = ""
			return m, nil
		}
		m.adjust(0)
	case key.Matches(keyMsg, keys.Mute):
		m.app.toggleMute()
	}
	return m, nil
}

// adjust changes the setting under the cursor. dir 0 toggles flags.
func (m *SettingsModel) adjust(dir int) {
	row := m.rows[m.cursor]
	if row.action != 0 {
		return
	}
	cur, ok := m.app.settings().Get(row.key)
	if !ok {
		return
	}

	var next any
	switch v := cur.(type) {
	case bool:
		next = !v
	case int:
		if dir == 0 {
			return
		}
		next = v + dir*volumeStep
	case float64:
		if dir == 0 {
			return
		}
		next = v + float64(dir)*intensityStep
	default:
		return
	}

	if err := m.app.Store.UpdateSetting(row.key, next); err != nil {
		m.app.Logger.Error("update setting", "key", row.key, "error", err)
		m.notice = "Could not change that setting."
		return
	}
	m.app.applySettings()
	m.app.click()
	m.notice = ""
}

func (m SettingsModel) answer(msg tea.KeyMsg) (SettingsModel, tea.Cmd) {
	action := m.confirm
	m.confirm = 0
	if msg.String() != "y" && msg.String() != "Y" {
		m.notice = "Cancelled."
		return m, nil
	}

	switch action {
	case actionResetProgress:
		if m.app.Store.ResetProgress() {
			m.notice = "Progress reset. Level 1 is waiting."
		} else {
			m.notice = "Progress reset for this session only."
		}
	case actionHardReset:
		m.app.Store.HardReset()
		m.app.applySettings()
		m.notice = "Everything was reset."
	}
	m.app.Logger.Info("progress reset", "hard", action == actionHardReset)
	return m, nil
}

func (m SettingsModel) valueText(k progress.SettingKey) string {
	v, ok := m.app.settings().Get(k)
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case bool:
		if v {
			return "on"
		}
		return "off"
	case int:
		return fmt.Sprintf("%3d%%", v)
	case float64:
		return fmt.Sprintf("%3.0f%%", v*100)
	}
	return fmt.Sprint(v)
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	pal := m.app.palette
	width := m.app.width

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(pal.Title.Render("SETTINGS"), width))
	b.WriteString("\n\n")

	var rows strings.Builder
	for i, row := range m.rows {
		var line string
		style := pal.Text
		switch row.action {
		case actionResetProgress:
			line = fmt.Sprintf("%-22s", "Reset progress")
			style = pal.Bad
		case actionHardReset:
			line = fmt.Sprintf("%-22s", "Reset everything")
			style = pal.Bad
		default:
			line = fmt.Sprintf("%-22s %6s", settingLabels[row.key], m.valueText(row.key))
		}
		if i == m.cursor {
			rows.WriteString(pal.Selected.Render("> " + line))
		} else {
			rows.WriteString(style.Render("  " + line))
		}
		if i < len(m.rows)-1 {
			rows.WriteString("\n")
		}
	}
	b.WriteString(centerBlock(pal.Border.Render(rows.String()), width))
	b.WriteString("\n")

	switch m.confirm {
	case actionResetProgress:
		b.WriteString(centerText(pal.Bad.Render("Forget every fixed level and score? (y/n)"), width))
	case actionHardReset:
		b.WriteString(centerText(pal.Bad.Render("Erase name, progress and settings? (y/n)"), width))
	default:
		b.WriteString(centerText(pal.Muted.Render(m.notice), width))
	}
	b.WriteString("\n\n")
	b.WriteString(centerText(pal.Muted.Render(m.help.ShortHelpView([]key.Binding{
		m.app.keys.Up, m.app.keys.Down, m.app.keys.Left, m.app.keys.Right, m.app.keys.Select, m.app.keys.Back,
	})), width))
	b.WriteString("\n")
	return b.String()
}
