package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue is a short sound effect played on the sfx bus.
type Cue int

const (
	CueCorrect Cue = iota
	CueWrong
	CueLevelComplete
	CueGameOver
	CueClick
	CueHover
)

func (c Cue) String() string {
	switch c {
	case CueCorrect:
		return "correct"
	case CueWrong:
		return "wrong"
	case CueLevelComplete:
		return "level-complete"
	case CueGameOver:
		return "game-over"
	case CueClick:
		return "click"
	case CueHover:
		return "hover"
	default:
		return "unknown"
	}
}

// Note frequencies in Hz.
const (
	noteD4 = 293.66
	noteE4 = 329.63
	noteF4 = 349.23
	noteG4 = 392.00
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
)

// arpeggio spaces notes evenly, all with the same shape.
func arpeggio(notes []float64, spacing, d time.Duration, wave Wave, vol float64) []Tone {
	tones := make([]Tone, len(notes))
	for i, f := range notes {
		tones[i] = Tone{
			Freq:     f,
			Offset:   time.Duration(i) * spacing,
			Duration: d,
			Wave:     wave,
			Volume:   vol,
		}
	}
	return tones
}

var cueTones = map[Cue][]Tone{
	CueCorrect: arpeggio([]float64{noteC5, noteE5, noteG5},
		100*time.Millisecond, 150*time.Millisecond, WaveSine, 0.3),
	CueWrong: arpeggio([]float64{200, 150},
		150*time.Millisecond, 150*time.Millisecond, WaveSawtooth, 0.2),
	CueLevelComplete: arpeggio([]float64{noteC5, noteE5, noteG5, noteC6},
		150*time.Millisecond, 300*time.Millisecond, WaveTriangle, 0.3),
	CueGameOver: arpeggio([]float64{noteG4, noteF4, noteE4, noteD4},
		200*time.Millisecond, 300*time.Millisecond, WaveSine, 0.3),
	CueClick: {{Freq: 800, Duration: 50 * time.Millisecond, Wave: WaveSine, Volume: 0.15}},
	CueHover: {{Freq: 600, Duration: 30 * time.Millisecond, Wave: WaveSine, Volume: 0.08}},
}

// Tones returns the notes that make up a cue.
func (c Cue) Tones() []Tone {
	return append([]Tone(nil), cueTones[c]...)
}

// Length returns how long the cue plays, from the first note's start to the
// last note's end.
func (c Cue) Length() time.Duration {
	var end time.Duration
	for _, t := range cueTones[c] {
		end = max(end, t.Offset+t.Duration)
	}
	return end
}

// streamer mixes every tone of the cue into one finite stream.
func (c Cue) streamer(rate beep.SampleRate) beep.Streamer {
	tones := cueTones[c]
	if len(tones) == 0 {
		return nil
	}
	parts := make([]beep.Streamer, len(tones))
	for i, t := range tones {
		parts[i] = t.streamer(rate)
	}
	return beep.Take(rate.N(c.Length()), beep.Mix(parts...))
}
