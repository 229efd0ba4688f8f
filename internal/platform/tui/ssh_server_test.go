package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/level"
	"github.com/vovakirdan/mouthfix/internal/storage"
)

func TestNewSSHServerHostKey(t *testing.T) {
	deps := testDeps(t)
	dataDir := t.TempDir()
	deps.Config.Storage.DataDir = dataDir

	db, err := storage.Open(filepath.Join(dataDir, "mouthfix.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	srv, err := NewSSHServer(cfg, SSHDeps{
		Config: deps.Config,
		DB:     db,
		Pack:   deps.Pack,
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if _, err := os.Stat(filepath.Join(dataDir, "host_key")); err != nil {
		t.Errorf("host key not generated: %v", err)
	}
}

func TestSSHServerStopsOnCancel(t *testing.T) {
	pack, err := level.Default()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "mouthfix.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	deps := testDeps(t)
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "keys", "host")
	srv, err := NewSSHServer(cfg, SSHDeps{Config: deps.Config, DB: db, Pack: pack, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
