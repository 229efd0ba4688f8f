package leaderboard

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/progress"
	"github.com/vovakirdan/mouthfix/internal/storage"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newLocal(t *testing.T) *LocalClient {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewLocalClient(store, quietLogger())
}

// recv waits for the next update on ch.
func recv(t *testing.T, ch <-chan []Entry) []Entry {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for leaderboard update")
		return nil
	}
}

func names(entries []Entry) string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return strings.Join(out, ",")
}

func TestLocalSubmitAndTop(t *testing.T) {
	ctx := context.Background()
	c := newLocal(t)

	for _, s := range []struct {
		name  string
		score int
	}{{"ada", 150}, {"bob", 300}, {"cy", 150}, {"dee", 50}} {
		if _, err := c.Submit(ctx, s.name, s.score, 1); err != nil {
			t.Fatalf("Submit(%s) failed: %v", s.name, err)
		}
	}

	top, err := c.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if got := names(top); got != "bob,ada,cy" {
		t.Errorf("Top(3) = %s, want bob,ada,cy", got)
	}
	if top[0].ID == "" || top[0].Timestamp.IsZero() {
		t.Errorf("entry missing id or timestamp: %+v", top[0])
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	c := newLocal(t)

	tests := []struct {
		name          string
		score, levels int
	}{
		{"", 10, 1},
		{"   ", 10, 1},
		{"ada", -1, 1},
		{"ada", 10, -1},
	}
	for _, tt := range tests {
		if _, err := c.Submit(ctx, tt.name, tt.score, tt.levels); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("Submit(%q, %d, %d) err = %v, want ErrInvalidEntry", tt.name, tt.score, tt.levels, err)
		}
	}

	e, err := c.Submit(ctx, "  ada  ", 10, 1)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if e.Name != "ada" {
		t.Errorf("name = %q, want trimmed", e.Name)
	}
}

func TestLocalSubscribe(t *testing.T) {
	ctx := context.Background()
	c := newLocal(t)
	if _, err := c.Submit(ctx, "ada", 100, 1); err != nil {
		t.Fatal(err)
	}

	updates := make(chan []Entry, 8)
	unsubscribe, err := c.Subscribe(ctx, 2, func(e []Entry) { updates <- e })
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}

	if got := names(recv(t, updates)); got != "ada" {
		t.Errorf("initial = %s, want ada", got)
	}

	c.Submit(ctx, "bob", 200, 2)
	if got := names(recv(t, updates)); got != "bob,ada" {
		t.Errorf("after bob = %s, want bob,ada", got)
	}

	c.Submit(ctx, "cy", 300, 3)
	if got := names(recv(t, updates)); got != "cy,bob" {
		t.Errorf("limit not applied: %s", got)
	}

	unsubscribe()
	unsubscribe()
	if n := c.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", n)
	}
	c.Submit(ctx, "dee", 400, 4)
	select {
	case e := <-updates:
		t.Errorf("update after unsubscribe: %s", names(e))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeEndsWithContext(t *testing.T) {
	c := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())

	updates := make(chan []Entry, 8)
	if _, err := c.Subscribe(ctx, 5, func(e []Entry) { updates <- e }); err != nil {
		t.Fatal(err)
	}
	recv(t, updates)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for c.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription still open after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscriberDropsOldest(t *testing.T) {
	f := newFeed()
	s := f.subscribe(10)
	for i := range 10 {
		s.send([]Entry{{Score: i}})
	}

	var last []Entry
	for len(s.events) > 0 {
		last = <-s.events
	}
	if last[0].Score != 9 {
		t.Errorf("latest update lost, last score = %d", last[0].Score)
	}

	f.unsubscribe(s)
	s.send([]Entry{{Score: 99}})
	if len(s.events) != 0 {
		t.Error("send after close should be ignored")
	}
}

type recordingClient struct {
	Client
	calls int
}

func (r *recordingClient) Submit(_ context.Context, name string, score, levels int) (Entry, error) {
	r.calls++
	return Entry{Name: name, Score: score, LevelsCompleted: levels}, nil
}

func TestSubmitProgress(t *testing.T) {
	ctx := context.Background()
	rc := &recordingClient{}

	if _, ok, _ := SubmitProgress(ctx, rc, "ada", progress.Progress{}); ok {
		t.Error("zero total should not submit")
	}
	if _, ok, _ := SubmitProgress(ctx, rc, "  ", progress.Progress{TotalScore: 10}); ok {
		t.Error("empty name should not submit")
	}
	if rc.calls != 0 {
		t.Fatalf("calls = %d, want 0", rc.calls)
	}

	p := progress.Progress{TotalScore: 250, CompletedLevels: []int{1, 2, 3}}
	e, ok, err := SubmitProgress(ctx, rc, "ada", p)
	if err != nil || !ok {
		t.Fatalf("SubmitProgress() = %v, %v", ok, err)
	}
	if e.Score != 250 || e.LevelsCompleted != 3 {
		t.Errorf("submitted %+v", e)
	}
}

type downClient struct{}

var errDown = errors.New("connection refused")

func (downClient) Submit(context.Context, string, int, int) (Entry, error) { return Entry{}, errDown }
func (downClient) Top(context.Context, int) ([]Entry, error)             { return nil, errDown }
func (downClient) Subscribe(context.Context, int, func([]Entry)) (func(), error) {
	return nil, errDown
}

func TestFallbackKeepsScoresLocally(t *testing.T) {
	ctx := context.Background()
	c := NewFallbackClient(downClient{}, quietLogger())

	updates := make(chan []Entry, 8)
	unsubscribe, err := c.Subscribe(ctx, 10, func(e []Entry) { updates <- e })
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	defer unsubscribe()
	if got := recv(t, updates); len(got) != 0 {
		t.Errorf("initial local list = %v, want empty", got)
	}

	e, err := c.Submit(ctx, "ada", 120, 2)
	if err != nil {
		t.Fatalf("Submit() err = %v, want fallback", err)
	}
	if !strings.HasPrefix(e.ID, LocalIDPrefix) {
		t.Errorf("id = %q, want %s prefix", e.ID, LocalIDPrefix)
	}
	if !c.Offline() {
		t.Error("Offline() = false after remote failure")
	}
	if got := names(recv(t, updates)); got != "ada" {
		t.Errorf("update = %s, want ada", got)
	}

	c.Submit(ctx, "bob", 300, 3)
	top, err := c.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if got := names(top); got != "bob,ada" {
		t.Errorf("Top() = %s, want bob,ada", got)
	}
}

func TestFallbackTieOrder(t *testing.T) {
	ctx := context.Background()
	c := NewFallbackClient(nil, quietLogger())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	c.Submit(ctx, "first", 100, 1)
	c.Submit(ctx, "second", 100, 1)
	c.Submit(ctx, "best", 200, 1)

	top, _ := c.Top(ctx, 10)
	if got := names(top); got != "best,first,second" {
		t.Errorf("Top() = %s, want best,first,second", got)
	}
}

func TestFallbackUsesRemoteWhenUp(t *testing.T) {
	ctx := context.Background()
	remote := newLocal(t)
	c := NewFallbackClient(remote, quietLogger())

	e, err := c.Submit(ctx, "ada", 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(e.ID, LocalIDPrefix) || c.Offline() {
		t.Errorf("remote submit fell back: %+v", e)
	}
	top, _ := remote.Top(ctx, 10)
	if len(top) != 1 {
		t.Errorf("remote has %d entries, want 1", len(top))
	}
}
