package tui

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/vovakirdan/mouthfix/internal/core"
	"github.com/vovakirdan/mouthfix/internal/session"
)

const (
	confettiGravity = 40.0 // cells per second squared
	confettiLife    = 3 * time.Second
)

var confettiGlyphs = []rune{'•', '▪', '▴', '◆', '*'}

type particle struct {
	x, y   float64
	vx, vy float64
	age    time.Duration
	glyph  rune
	color  core.Color
	decay  float64
}

// confetti simulates the celebration bursts on a w x h area.
type confetti struct {
	width, height int
	rng           *rand.Rand
	elapsed       time.Duration
	pending       []session.Burst
	particles     []particle
}

func newConfetti(width, height int, seed uint64) *confetti {
	return &confetti{
		width:   width,
		height:  height,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		pending: session.Confetti(),
	}
}

// active reports whether anything is still to be drawn.
func (c *confetti) active() bool {
	return c != nil && (len(c.pending) > 0 || len(c.particles) > 0)
}

func (c *confetti) launch(b session.Burst) {
	originX := float64(c.width) / 2
	originY := float64(c.height) * 0.7
	colors := make([]core.Color, 0, len(b.Colors))
	for _, hex := range b.Colors {
		if col, err := core.ParseHex(hex); err == nil {
			colors = append(colors, col)
		}
	}
	if len(colors) == 0 {
		colors = []core.Color{core.RGB(255, 255, 255)}
	}

	for range b.Particles {
		// Straight up, spread across the cone.
		angle := (-90 + (c.rng.Float64()-0.5)*b.Spread) * math.Pi / 180
		speed := b.StartVelocity * (0.5 + c.rng.Float64()*0.5)
		c.particles = append(c.particles, particle{
			x:     originX,
			y:     originY,
			vx:    math.Cos(angle) * speed,
			vy:    math.Sin(angle) * speed / 2, // cells are twice as tall as wide
			glyph: confettiGlyphs[c.rng.IntN(len(confettiGlyphs))],
			color: colors[c.rng.IntN(len(colors))],
			decay: b.Decay,
		})
	}
}

// step advances the simulation by dt.
func (c *confetti) step(dt time.Duration) {
	if c == nil {
		return
	}
	c.elapsed += dt

	remaining := c.pending[:0]
	for _, b := range c.pending {
		if b.Delay <= c.elapsed {
			c.launch(b)
		} else {
			remaining = append(remaining, b)
		}
	}
	c.pending = remaining

	secs := dt.Seconds()
	frames := secs * frameRate
	alive := c.particles[:0]
	for _, p := range c.particles {
		keep := math.Pow(p.decay, frames)
		p.vx *= keep
		p.vy = p.vy*keep + confettiGravity*secs/2
		p.x += p.vx * secs
		p.y += p.vy * secs
		p.age += dt
		if p.age < confettiLife && p.y < float64(c.height) && p.x >= 0 && p.x < float64(c.width) {
			alive = append(alive, p)
		}
	}
	c.particles = alive
}

// draw paints live particles over s.
func (c *confetti) draw(s *core.Screen) {
	if c == nil {
		return
	}
	for _, p := range c.particles {
		s.DrawText(int(p.x), int(p.y), string(p.glyph), p.color)
	}
}
