package session

import (
	"bytes"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/level"
	"github.com/vovakirdan/mouthfix/internal/progress"
)

type fakeSounds struct {
	played []string
}

func (f *fakeSounds) PlayCorrect() bool       { f.played = append(f.played, "correct"); return true }
func (f *fakeSounds) PlayWrong() bool         { f.played = append(f.played, "wrong"); return true }
func (f *fakeSounds) PlayLevelComplete() bool { f.played = append(f.played, "level-complete"); return true }
func (f *fakeSounds) PlayGameOver() bool      { f.played = append(f.played, "game-over"); return true }

type fakeVibrator struct {
	pulses []time.Duration
}

func (f *fakeVibrator) Vibrate(d time.Duration) error {
	f.pulses = append(f.pulses, d)
	return nil
}

type fixture struct {
	store    *progress.Store
	pack     *level.Pack
	sounds   *fakeSounds
	vibrator *fakeVibrator
	session  *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pack, err := level.Default()
	if err != nil {
		t.Fatal(err)
	}
	store := progress.NewStore(progress.NewMemoryBackend(nil), pack.Count(), log.New(io.Discard))
	store.Load()

	f := &fixture{store: store, pack: pack, sounds: &fakeSounds{}, vibrator: &fakeVibrator{}}
	haptics := NewHaptics(50*time.Millisecond, f.vibrator, func() progress.HapticsSettings {
		return store.Settings().Haptics
	})
	f.session = New(DefaultConfig(), store, f.sounds, haptics)
	return f
}

func (f *fixture) enter(t *testing.T, index int) level.Level {
	t.Helper()
	lvl, ok := f.pack.Get(index)
	if !ok {
		t.Fatalf("no level at index %d", index)
	}
	f.session.Enter(index, lvl)
	return lvl
}

// wrongOption returns an option id other than the answer.
func wrongOption(lvl level.Level, skip int) string {
	for _, opt := range lvl.Options {
		if opt.ID == lvl.CorrectOptionID {
			continue
		}
		if skip == 0 {
			return opt.ID
		}
		skip--
	}
	return ""
}

func TestPoints(t *testing.T) {
	table := []int{100, 70, 40}
	tests := []struct {
		attempt, want int
	}{
		{0, 0},
		{1, 100},
		{2, 70},
		{3, 40},
		{4, 40},
		{10, 40},
	}
	for _, tt := range tests {
		if got := Points(tt.attempt, table); got != tt.want {
			t.Errorf("Points(%d) = %d, want %d", tt.attempt, got, tt.want)
		}
	}
}

func TestWrongWrongCorrect(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)

	f.session.Select(wrongOption(lvl, 0))
	f.session.Select(wrongOption(lvl, 1))
	out := f.session.Select(lvl.CorrectOptionID)

	if !out.Correct || out.Points != 40 {
		t.Fatalf("outcome = %+v, want correct for 40", out)
	}
	st := f.session.State()
	if st.Score != 40 || st.Lives != 1 || st.Phase != PhaseLevelComplete {
		t.Errorf("state = score %d lives %d phase %v", st.Score, st.Lives, st.Phase)
	}
	p := f.store.Progress()
	if !p.IsCompleted(1) || !p.IsUnlocked(2) {
		t.Errorf("progress = %+v, want level 1 completed and 2 unlocked", p)
	}
	if !reflect.DeepEqual(out.Progress, p) {
		t.Errorf("outcome progress %+v differs from store %+v", out.Progress, p)
	}
}

func TestFirstTryCorrect(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)

	out := f.session.Select(lvl.CorrectOptionID)
	if out.Points != 100 || f.session.State().Score != 100 {
		t.Fatalf("points = %d, score = %d, want 100", out.Points, f.session.State().Score)
	}
	p := f.store.Progress()
	if p.TotalScore != 100 || p.HighScore != 100 {
		t.Errorf("total/high = %d/%d, want 100/100", p.TotalScore, p.HighScore)
	}

	if !reflect.DeepEqual(f.sounds.played, []string{"correct"}) {
		t.Errorf("sounds = %v", f.sounds.played)
	}
	if !reflect.DeepEqual(f.vibrator.pulses, []time.Duration{50 * time.Millisecond}) {
		t.Errorf("pulses = %v, want one medium pulse", f.vibrator.pulses)
	}

	kinds := []TaskKind{out.Tasks[0].Kind, out.Tasks[1].Kind}
	if !reflect.DeepEqual(kinds, []TaskKind{TaskCelebrate, TaskAutoAdvance}) {
		t.Errorf("tasks = %v", out.Tasks)
	}
	if out.Tasks[0].Delay != 200*time.Millisecond || out.Tasks[1].Delay != 3*time.Second {
		t.Errorf("task delays = %v, %v", out.Tasks[0].Delay, out.Tasks[1].Delay)
	}
}

func TestThreeWrongIsGameOver(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)

	for i := 0; i < 3; i++ {
		out := f.session.Select(wrongOption(lvl, i))
		if out.Correct || out.LivesLeft != 2-i {
			t.Fatalf("pick %d outcome = %+v", i+1, out)
		}
		if out.GameOver != (i == 2) {
			t.Fatalf("pick %d GameOver = %v", i+1, out.GameOver)
		}
	}

	if f.session.Phase() != PhaseGameOver {
		t.Errorf("phase = %v, want game over", f.session.Phase())
	}
	wantSounds := []string{"wrong", "wrong", "wrong", "game-over"}
	if !reflect.DeepEqual(f.sounds.played, wantSounds) {
		t.Errorf("sounds = %v, want %v", f.sounds.played, wantSounds)
	}
	wantPulses := []time.Duration{25 * time.Millisecond, 25 * time.Millisecond, 25 * time.Millisecond, 100 * time.Millisecond}
	if !reflect.DeepEqual(f.vibrator.pulses, wantPulses) {
		t.Errorf("pulses = %v, want %v", f.vibrator.pulses, wantPulses)
	}

	// Further picks are ignored, even the right one
	out := f.session.Select(lvl.CorrectOptionID)
	if !out.Ignored || f.session.State().Attempts != 3 {
		t.Errorf("pick after game over = %+v", out)
	}
	if f.store.Progress().IsCompleted(1) {
		t.Error("level completed after game over")
	}
}

func TestSelectIgnoredWhenComplete(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)
	f.session.Select(lvl.CorrectOptionID)

	out := f.session.Select(wrongOption(lvl, 0))
	if !out.Ignored {
		t.Errorf("pick after completion = %+v, want ignored", out)
	}
	st := f.session.State()
	if st.Lives != 3 || st.Attempts != 1 || st.Score != 100 {
		t.Errorf("state changed after completion: %+v", st)
	}
}

func TestSelectIgnoredWhenIdle(t *testing.T) {
	f := newFixture(t)
	if out := f.session.Select("anything"); !out.Ignored {
		t.Errorf("pick before entering a level = %+v, want ignored", out)
	}
	if f.session.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", f.session.Phase())
	}
}

func TestShakeClearTask(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)
	wrong := wrongOption(lvl, 0)

	out := f.session.Select(wrong)
	st := f.session.State()
	if !st.Shaking || st.Selected != wrong {
		t.Fatalf("after wrong pick shaking=%v selected=%q", st.Shaking, st.Selected)
	}
	if len(out.Tasks) != 1 || out.Tasks[0].Kind != TaskShakeClear || out.Tasks[0].Delay != 400*time.Millisecond {
		t.Fatalf("tasks = %+v", out.Tasks)
	}

	if !f.session.Fire(out.Tasks[0]) {
		t.Fatal("Fire(shake-clear) = false")
	}
	st = f.session.State()
	if st.Shaking || st.Selected != "" {
		t.Errorf("after shake clear shaking=%v selected=%q", st.Shaking, st.Selected)
	}
}

func TestStaleTasksAreDiscarded(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)
	stale := f.session.Select(wrongOption(lvl, 0)).Tasks[0]

	// Leave for another level mid-shake and pick wrong there too
	next := f.enter(t, 1)
	fresh := f.session.Select(wrongOption(next, 0)).Tasks[0]

	if f.session.Fire(stale) {
		t.Error("task from the previous level applied")
	}
	if !f.session.State().Shaking {
		t.Error("stale task cleared the new level's shake")
	}
	if !f.session.Fire(fresh) {
		t.Error("current task was dropped")
	}
}

func TestResetCancelsCelebration(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)
	tasks := f.session.Select(lvl.CorrectOptionID).Tasks

	f.session.Reset()
	for _, task := range tasks {
		if f.session.Fire(task) {
			t.Errorf("%v fired after reset", task.Kind)
		}
	}
	if len(f.sounds.played) != 1 {
		t.Errorf("sounds = %v, fanfare should not play", f.sounds.played)
	}
}

func TestCelebrateAndAdvance(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)
	tasks := f.session.Select(lvl.CorrectOptionID).Tasks

	if !f.session.Fire(tasks[0]) {
		t.Error("celebrate task dropped")
	}
	if got := f.sounds.played[len(f.sounds.played)-1]; got != "level-complete" {
		t.Errorf("last sound = %q, want level-complete", got)
	}
	if !f.session.Fire(tasks[1]) {
		t.Error("auto-advance task dropped")
	}
}

func TestResetRestoresSession(t *testing.T) {
	f := newFixture(t)
	lvl := f.enter(t, 0)
	for i := 0; i < 3; i++ {
		f.session.Select(wrongOption(lvl, i))
	}
	gen := f.session.State().Generation

	f.session.Reset()
	st := f.session.State()
	want := State{
		Phase:      PhaseAwaitingSelection,
		Index:      0,
		Level:      lvl,
		Lives:      3,
		Generation: gen + 1,
	}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("state after reset = %+v, want %+v", st, want)
	}
}

func TestCustomConfig(t *testing.T) {
	pack, _ := level.Default()
	lvl, _ := pack.Get(0)
	cfg := Config{InitialLives: 1, Points: []int{10}}
	s := New(cfg, nil, nil, nil)
	s.Enter(0, lvl)

	out := s.Select(wrongOption(lvl, 0))
	if !out.GameOver {
		t.Errorf("one life config: outcome = %+v, want game over", out)
	}
	s.Reset()
	s.Select(wrongOption(lvl, 0))
	if s.Phase() != PhaseGameOver {
		t.Error("reset should restore the configured single life")
	}
}

func TestHaptics(t *testing.T) {
	settings := progress.HapticsSettings{Enabled: true, Intensity: 0.5}
	v := &fakeVibrator{}
	h := NewHaptics(0, v, func() progress.HapticsSettings { return settings })

	tests := []struct {
		factor float64
		want   time.Duration
	}{
		{HapticLight, 12500 * time.Microsecond},
		{HapticMedium, 25 * time.Millisecond},
		{HapticStrong, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := h.Vibrate(tt.factor); got != tt.want {
			t.Errorf("Vibrate(%v) = %v, want %v", tt.factor, got, tt.want)
		}
	}
	if len(v.pulses) != 3 {
		t.Errorf("pulses = %v", v.pulses)
	}

	settings.Enabled = false
	if got := h.Vibrate(HapticStrong); got != 0 || len(v.pulses) != 3 {
		t.Errorf("disabled haptics vibrated for %v", got)
	}

	var unsupported *Haptics
	if got := unsupported.Vibrate(HapticMedium); got != 0 {
		t.Errorf("nil haptics vibrated for %v", got)
	}
	if got := NewHaptics(0, nil, func() progress.HapticsSettings { return settings }).Vibrate(1); got != 0 {
		t.Errorf("haptics without a vibrator vibrated for %v", got)
	}
}

func TestBellVibrator(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBellVibrator(&buf).Vibrate(time.Second); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Errorf("bell wrote %q", buf.String())
	}
}

func TestConfetti(t *testing.T) {
	bursts := Confetti()
	if len(bursts) != 5 {
		t.Fatalf("len(Confetti()) = %d, want 5", len(bursts))
	}
	total := 0
	for i, b := range bursts {
		total += b.Particles
		if b.Particles <= 0 || len(b.Colors) == 0 || b.Decay <= 0 || b.Decay >= 1 {
			t.Errorf("burst %d = %+v", i, b)
		}
		if i > 0 && b.Delay < bursts[i-1].Delay {
			t.Errorf("burst %d starts before burst %d", i, i-1)
		}
	}
	if total > confettiTotal {
		t.Errorf("total particles = %d, over budget %d", total, confettiTotal)
	}
}
