package core

import (
	"image"
	"strings"
)

// halfBlock draws the top pixel of a cell in the foreground and the bottom
// pixel in the background.
const halfBlock = '▀'

// Cell is one terminal cell.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
}

var blank = Cell{Rune: ' '}

// Screen is a 2D cell buffer. Screens render images and text without
// knowing about the terminal; the platform turns cells into styled output.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the whole screen as a rectangle.
func (s *Screen) Bounds() Rect {
	return Rect{W: s.width, H: s.height}
}

// Resize changes the screen dimensions and clears it.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = max(width, 0)
	s.height = max(height, 0)
	s.allocate()
	s.Clear()
}

// Clear fills the entire screen with blank cells.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = blank
		}
	}
}

// Set places a rune at the given position, keeping the cell's colors.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	if !s.in(x, y) {
		return
	}
	s.cells[y][x].Rune = r
}

// SetCell replaces the cell at the given position.
func (s *Screen) SetCell(x, y int, c Cell) {
	if !s.in(x, y) {
		return
	}
	s.cells[y][x] = c
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position, or a blank cell.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.in(x, y) {
		return blank
	}
	return s.cells[y][x]
}

func (s *Screen) in(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// DrawText writes a string horizontally starting at (x, y) in fg.
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, fg Color) {
	i := 0
	for _, r := range text {
		if s.in(x+i, y) {
			c := s.cells[y][x+i]
			s.cells[y][x+i] = Cell{Rune: r, FG: fg, BG: c.BG}
		}
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string, fg Color) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawText(x, y, text, fg)
}

// FillRect paints a rectangular area's background.
func (s *Screen) FillRect(r Rect, bg Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetCell(x, y, Cell{Rune: ' ', BG: bg})
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect, fg Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	set := func(x, y int, ch rune) { s.DrawText(x, y, string(ch), fg) }

	set(r.X, r.Y, '┌')
	set(r.Right()-1, r.Y, '┐')
	set(r.X, r.Bottom()-1, '└')
	set(r.Right()-1, r.Bottom()-1, '┘')

	for x := r.X + 1; x < r.Right()-1; x++ {
		set(x, r.Y, '─')
		set(x, r.Bottom()-1, '─')
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		set(r.X, y, '│')
		set(r.Right()-1, y, '│')
	}
}

// DrawImage scales img into r with nearest-neighbour sampling, two pixels
// per cell. Transparent pixels leave the underlying color.
func (s *Screen) DrawImage(r Rect, img image.Image) {
	if img == nil || r.Empty() {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	px := func(cx, py int) Color {
		sx := b.Min.X + cx*b.Dx()/r.W
		sy := b.Min.Y + py*b.Dy()/(2*r.H)
		return FromColor(img.At(sx, sy))
	}

	for cy := 0; cy < r.H; cy++ {
		for cx := 0; cx < r.W; cx++ {
			x, y := r.X+cx, r.Y+cy
			if !s.in(x, y) {
				continue
			}
			under := s.cells[y][x].BG
			top, bottom := px(cx, 2*cy), px(cx, 2*cy+1)
			if !top.Set {
				top = under
			}
			if !bottom.Set {
				bottom = under
			}
			s.cells[y][x] = Cell{Rune: halfBlock, FG: top, BG: bottom}
		}
	}
}

// String returns the runes of the buffer without colors, rows joined by
// newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
