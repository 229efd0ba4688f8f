package tui

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/leaderboard"
	"github.com/vovakirdan/mouthfix/internal/storage"
)

func TestScoreboardLiveUpdates(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	client := leaderboard.NewLocalClient(db, log.New(io.Discard))

	deps := testDeps(t)
	deps.Leaderboard = client
	deps.Store.SetPlayerName("ada")
	a := testApp(t, deps)

	m, cmd := NewScoreboardModel(a).Open()
	if !m.loading || !strings.Contains(m.View(), "Loading") {
		t.Error("scoreboard should show loading until the first list")
	}
	m, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("subscribed scoreboard should wait for updates")
	}
	m, cmd = m.Update(cmd())
	if m.loading || len(m.entries) != 0 {
		t.Fatalf("initial entries = %+v", m.entries)
	}

	if _, err := client.Submit(a.ctx, "ada", 240, 3); err != nil {
		t.Fatal(err)
	}
	m, _ = m.Update(cmd())
	if len(m.entries) != 1 || m.entries[0].Score != 240 {
		t.Fatalf("entries after submit = %+v", m.entries)
	}
	if !strings.Contains(m.View(), "★ ada") {
		t.Error("own entry not highlighted")
	}

	m.unsubscribe()
	m.unsubscribe()
	if n := client.Subscribers(); n != 0 {
		t.Errorf("subscribers after unsubscribe = %d", n)
	}
}

func TestScoreboardLateSubscriptionClosed(t *testing.T) {
	board := &recordingBoard{}
	deps := testDeps(t)
	deps.Leaderboard = board
	a := testApp(t, deps)

	m, cmd := NewScoreboardModel(a).Open()
	msg := cmd()
	m.unsubscribe()

	m, next := m.Update(msg)
	if next != nil {
		t.Error("stale subscription should not wait for updates")
	}
	if board.unsubs != 1 {
		t.Errorf("unsubscribe calls = %d, want 1", board.unsubs)
	}
}

func TestScoreboardUnavailable(t *testing.T) {
	a := testApp(t, testDeps(t))
	m, cmd := NewScoreboardModel(a).Open()
	if cmd != nil {
		t.Error("no leaderboard should mean no subscription")
	}
	if !strings.Contains(m.View(), "unavailable") {
		t.Error("missing unavailable notice")
	}

	deps := testDeps(t)
	deps.Leaderboard = &recordingBoard{err: errors.New("down")}
	a = testApp(t, deps)
	m, cmd = NewScoreboardModel(a).Open()
	m, _ = m.Update(cmd())
	if m.err == nil || !strings.Contains(m.View(), "unavailable") {
		t.Error("subscribe error not shown")
	}
}

func TestScoreboardOfflineStatus(t *testing.T) {
	deps := testDeps(t)
	deps.Leaderboard = &recordingBoard{offline: true}
	a := testApp(t, deps)
	m, _ := NewScoreboardModel(a).Open()
	if !strings.Contains(m.View(), "offline") {
		t.Error("offline leaderboard not indicated")
	}
}

func TestScoreFeedKeepsNewest(t *testing.T) {
	f := newScoreFeed()
	f.push([]leaderboard.Entry{{Name: "old"}})
	f.push([]leaderboard.Entry{{Name: "new"}})

	msg, ok := f.wait()().(scoresMsg)
	if !ok || msg.entries[0].Name != "new" {
		t.Fatalf("got %+v, want the newest list", msg)
	}

	f.stop()
	f.stop()
	f.push([]leaderboard.Entry{{Name: "late"}})
	if got := f.wait()(); got != nil {
		t.Errorf("stopped feed returned %v", got)
	}
}
