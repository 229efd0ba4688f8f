package session

import (
	"io"
	"sync"
	"time"

	"github.com/vovakirdan/mouthfix/internal/progress"
)

// Haptic strength factors.
const (
	HapticLight  = 0.5
	HapticMedium = 1.0
	HapticStrong = 2.0
)

// DefaultHapticBase is the vibration length at factor 1 and full intensity.
const DefaultHapticBase = 50 * time.Millisecond

// Vibrator drives a vibration motor or a stand-in for one.
type Vibrator interface {
	Vibrate(d time.Duration) error
}

// Haptics scales vibrations by the player's haptics settings.
type Haptics struct {
	base     time.Duration
	vibrator Vibrator
	settings func() progress.HapticsSettings
}

// NewHaptics returns haptics driving v. settings is read on every
// vibration so changes apply immediately. A nil v means unsupported.
func NewHaptics(base time.Duration, v Vibrator, settings func() progress.HapticsSettings) *Haptics {
	if base <= 0 {
		base = DefaultHapticBase
	}
	return &Haptics{base: base, vibrator: v, settings: settings}
}

// Duration returns how long a vibration of factor would last, or 0 when
// haptics are off.
func (h *Haptics) Duration(factor float64) time.Duration {
	if h == nil || h.vibrator == nil || h.settings == nil {
		return 0
	}
	st := h.settings()
	if !st.Enabled {
		return 0
	}
	return time.Duration(float64(h.base) * factor * st.Intensity)
}

// Vibrate fires a vibration scaled by factor and returns its length.
// Errors from the vibrator are ignored; haptics are best effort.
func (h *Haptics) Vibrate(factor float64) time.Duration {
	d := h.Duration(factor)
	if d <= 0 {
		return 0
	}
	_ = h.vibrator.Vibrate(d)
	return d
}

// BellVibrator stands in for a motor on terminals by ringing the bell.
type BellVibrator struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBellVibrator returns a vibrator writing BEL to w.
func NewBellVibrator(w io.Writer) *BellVibrator {
	return &BellVibrator{w: w}
}

func (b *BellVibrator) Vibrate(time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}
