package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mouthfix/internal/core"
)

// Palette is the set of styles every screen renders with.
type Palette struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Cursor   lipgloss.Style
	Locked   lipgloss.Style
	Good     lipgloss.Style
	Bad      lipgloss.Style
	Heart    lipgloss.Style
	Border   lipgloss.Style
	Selected lipgloss.Style

	// Canvas colors for boxes drawn on a core.Screen.
	Frame    core.Color
	Focus    core.Color
	Wrong    core.Color
	Backdrop core.Color
}

// NewPalette returns the default palette, or a high-contrast one.
func NewPalette(highContrast bool) Palette {
	if highContrast {
		return Palette{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0")),
			Text:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
			Cursor:   lipgloss.NewStyle().Bold(true).Reverse(true),
			Locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Strikethrough(true),
			Good:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			Bad:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Underline(true),
			Heart:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
			Border:   lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("15")).Padding(0, 1),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15")),
			Frame:    core.RGB(255, 255, 255),
			Focus:    core.RGB(255, 255, 0),
			Wrong:    core.RGB(255, 0, 0),
			Backdrop: core.RGB(0, 0, 0),
		}
	}
	return Palette{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Good:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Bad:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Heart:    lipgloss.NewStyle().Foreground(lipgloss.Color("197")),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Frame:    core.RGB(0x58, 0x58, 0x58),
		Focus:    core.RGB(0xff, 0xd7, 0x5f),
		Wrong:    core.RGB(0xff, 0x5f, 0x5f),
		Backdrop: core.ColorDefault,
	}
}

// cellStyle returns the lipgloss style for a cell's colors.
func cellStyle(fg, bg core.Color) lipgloss.Style {
	st := lipgloss.NewStyle()
	if fg.Set {
		st = st.Foreground(lipgloss.Color(fg.Hex()))
	}
	if bg.Set {
		st = st.Background(lipgloss.Color(bg.Hex()))
	}
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.FG != start.FG || cell.BG != start.BG {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if !start.FG.Set && !start.BG.Set {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(cellStyle(start.FG, start.BG).Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// centerBlock centers every line of a multi-line block.
func centerBlock(block string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
