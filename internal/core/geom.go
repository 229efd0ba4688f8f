// Package core provides the cell canvas the terminal front end draws on.
// It has no Bubble Tea dependency so drawing stays testable.
package core

// Rect is an axis-aligned area in cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Fit returns the largest rectangle centred in r whose pixel aspect matches
// an image of imgW x imgH. Cells hold two pixels vertically.
func (r Rect) Fit(imgW, imgH int) Rect {
	if r.Empty() || imgW <= 0 || imgH <= 0 {
		return Rect{X: r.X, Y: r.Y}
	}
	w := r.W
	h := (w*imgH + imgW - 1) / imgW / 2
	if h > r.H {
		h = r.H
		w = 2 * h * imgW / imgH
	}
	w = Clamp(w, 1, r.W)
	h = Clamp(h, 1, r.H)
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
