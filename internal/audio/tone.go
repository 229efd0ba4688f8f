package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

func (w Wave) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSquare:
		return "square"
	case WaveSawtooth:
		return "sawtooth"
	case WaveTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Envelope shape shared by every tone.
const (
	envelopeStart   = 0.01
	envelopeAttack  = 10 * time.Millisecond
	envelopeRelease = 0.3 // fraction of the tone spent fading out
)

// oscillator produces a fixed number of samples of one wave.
type oscillator struct {
	freq     float64
	phase    float64
	wave     Wave
	rate     beep.SampleRate
	position int
	total    int
}

func newOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) *oscillator {
	return &oscillator{freq: freq, wave: wave, rate: rate, total: rate.N(d)}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSawtooth:
			val = 2 * (o.phase - 0.5)
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream: starts at envelopeStart, rises linearly to 1
// over the attack, holds, then falls linearly to 0 over the release tail.
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	total        int
}

func newEnvelope(s beep.Streamer, d time.Duration, rate beep.SampleRate) *envelope {
	total := rate.N(d)
	release := int(float64(total) * envelopeRelease)
	return &envelope{
		streamer:     s,
		attack:       min(rate.N(envelopeAttack), total-release),
		releaseStart: total - release,
		total:        total,
	}
}

// level returns the gain at sample position p.
func (e *envelope) level(p int) float64 {
	switch {
	case p >= e.total:
		return 0
	case p >= e.releaseStart:
		return float64(e.total-p) / float64(e.total-e.releaseStart)
	case p < e.attack:
		return envelopeStart + (1-envelopeStart)*float64(p)/float64(e.attack)
	default:
		return 1
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		v := e.level(e.position)
		samples[i][0] *= v
		samples[i][1] *= v
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly by vol; beep's Volume effect is exponential.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Tone is one note of a cue.
type Tone struct {
	Freq     float64
	Offset   time.Duration // start relative to the cue
	Duration time.Duration
	Wave     Wave
	Volume   float64 // peak level, 0-1
}

// streamer renders the tone, prefixed with silence up to its offset.
func (t Tone) streamer(rate beep.SampleRate) beep.Streamer {
	osc := newOscillator(t.Freq, t.Duration, t.Wave, rate)
	shaped := newVolume(newEnvelope(osc, t.Duration, rate), t.Volume)
	if t.Offset <= 0 {
		return shaped
	}
	return beep.Seq(beep.Silence(rate.N(t.Offset)), shaped)
}
