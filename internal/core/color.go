package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a 24-bit cell color. The zero value means the terminal default.
type Color struct {
	R, G, B uint8
	Set     bool
}

// ColorDefault leaves the terminal's own color in place.
var ColorDefault = Color{}

// RGB returns an explicit color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// FromColor converts an image color, treating mostly transparent pixels as
// unset.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return ColorDefault
	}
	// Undo premultiplied alpha.
	r = r * 0xffff / a
	g = g * 0xffff / a
	b = b * 0xffff / a
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return ColorDefault, fmt.Errorf("core: bad hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColorDefault, fmt.Errorf("core: bad hex color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Hex returns "#rrggbb", or "" for the default color.
func (c Color) Hex() string {
	if !c.Set {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
