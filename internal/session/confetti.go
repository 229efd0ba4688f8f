package session

import "time"

// Burst is one wave of a confetti celebration.
type Burst struct {
	Delay         time.Duration
	Particles     int
	Spread        float64 // cone width in degrees
	StartVelocity float64 // cells per second
	Decay         float64 // velocity kept per tick, 0-1
	Colors        []string
}

var (
	warmColors  = []string{"#FF595E", "#FFCA3A", "#FF924C"}
	coolColors  = []string{"#8AC926", "#1982C4", "#6A4C93"}
	partyColors = []string{"#FF595E", "#FFCA3A", "#8AC926", "#1982C4", "#6A4C93"}
)

// confettiTotal is the particle budget split across the bursts.
const confettiTotal = 200

// Confetti returns the celebration plan: five overlapping bursts of
// different width and force.
func Confetti() []Burst {
	share := func(ratio float64) int { return int(confettiTotal * ratio) }
	return []Burst{
		{Particles: share(0.25), Spread: 26, StartVelocity: 55, Decay: 0.9, Colors: warmColors},
		{Delay: 50 * time.Millisecond, Particles: share(0.2), Spread: 60, StartVelocity: 45, Decay: 0.9, Colors: coolColors},
		{Delay: 100 * time.Millisecond, Particles: share(0.35), Spread: 100, StartVelocity: 45, Decay: 0.91, Colors: partyColors},
		{Delay: 150 * time.Millisecond, Particles: share(0.1), Spread: 120, StartVelocity: 25, Decay: 0.92, Colors: warmColors},
		{Delay: 200 * time.Millisecond, Particles: share(0.1), Spread: 120, StartVelocity: 45, Decay: 0.9, Colors: coolColors},
	}
}
