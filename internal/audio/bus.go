package audio

import (
	"github.com/gopxl/beep"
)

// bus mixes its inputs and applies a gain that moves linearly toward its
// target. A bus never drains; with nothing to play it streams silence.
type bus struct {
	mixer   beep.Mixer
	current float64
	target  float64
	step    float64
}

func newBus(gain float64) *bus {
	return &bus{current: gain, target: gain}
}

// setGain moves the gain to target over ramp samples. Callers hold the
// output lock.
func (b *bus) setGain(target float64, ramp int) {
	b.target = target
	if ramp <= 0 {
		b.current = target
		b.step = 0
		return
	}
	b.step = (target - b.current) / float64(ramp)
}

func (b *bus) add(s beep.Streamer) {
	b.mixer.Add(s)
}

func (b *bus) clear() {
	b.mixer.Clear()
}

func (b *bus) Stream(samples [][2]float64) (n int, ok bool) {
	n, _ = b.mixer.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}

	for i := range samples {
		if b.current != b.target {
			b.current += b.step
			if (b.step > 0 && b.current > b.target) || (b.step < 0 && b.current < b.target) || b.step == 0 {
				b.current = b.target
			}
		}
		samples[i][0] *= b.current
		samples[i][1] *= b.current
	}
	return len(samples), true
}

func (b *bus) Err() error { return nil }
